// Package otel provides OpenTelemetry instrumentation for the sepal
// parse/compile/evaluate pipeline.
package otel

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/sepal"
)

// Pipeline wraps sepal's parse, compile and evaluate calls with spans and
// metrics. Each expression gets a generated ID carried as a span and metric
// attribute so the three phases can be correlated.
type Pipeline struct {
	tracer  trace.Tracer
	metrics *Metrics
	limits  sepal.Limits
}

// NewPipeline creates a Pipeline using the given tracer. metrics may be nil
// to record spans only. The limits apply to every Compile call.
func NewPipeline(tracer trace.Tracer, metrics *Metrics, limits sepal.Limits) *Pipeline {
	return &Pipeline{tracer: tracer, metrics: metrics, limits: limits}
}

// CompiledExpr pairs a compiled predicate with its source text, tree and
// correlation ID.
type CompiledExpr struct {
	ID        string
	Text      string
	Root      *sepal.Node
	Predicate sepal.Predicate
}

// Compile parses and compiles an expression, one span per phase.
func (p *Pipeline) Compile(ctx context.Context, expression string, shape sepal.RecordShape) (*CompiledExpr, error) {
	id := uuid.New().String()

	root, err := p.parse(ctx, id, expression)
	if err != nil {
		return nil, err
	}
	pred, err := p.compileTree(ctx, id, root, shape)
	if err != nil {
		return nil, err
	}

	return &CompiledExpr{
		ID:        id,
		Text:      expression,
		Root:      root,
		Predicate: pred,
	}, nil
}

// Evaluate runs a compiled predicate against a record under a span.
func (p *Pipeline) Evaluate(ctx context.Context, ce *CompiledExpr, record sepal.Record) bool {
	ctx, span := p.tracer.Start(ctx, "sepal.evaluate",
		trace.WithAttributes(
			attribute.String("sepal.expression_id", ce.ID),
		),
	)
	defer span.End()

	start := time.Now()
	matched := ce.Predicate(record)
	span.SetAttributes(attribute.Bool("sepal.matched", matched))

	if p.metrics != nil {
		p.metrics.RecordEval(ctx, ce.ID, matched, time.Since(start))
	}
	return matched
}

func (p *Pipeline) parse(ctx context.Context, id, expression string) (*sepal.Node, error) {
	ctx, span := p.tracer.Start(ctx, "sepal.parse",
		trace.WithAttributes(
			attribute.String("sepal.expression_id", id),
			attribute.String("sepal.expression", expression),
		),
	)
	defer span.End()

	start := time.Now()
	root, err := sepal.ParseWithLimits(expression, p.limits)
	if p.metrics != nil {
		p.metrics.RecordParse(ctx, id, time.Since(start), err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return root, nil
}

func (p *Pipeline) compileTree(ctx context.Context, id string, root *sepal.Node, shape sepal.RecordShape) (sepal.Predicate, error) {
	ctx, span := p.tracer.Start(ctx, "sepal.compile",
		trace.WithAttributes(
			attribute.String("sepal.expression_id", id),
		),
	)
	defer span.End()

	pred, err := sepal.Compile(root, shape)
	if p.metrics != nil {
		p.metrics.RecordCompile(ctx, id, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return pred, nil
}
