package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records counters and histograms for expression parsing,
// compilation and evaluation.
type Metrics struct {
	parses          metric.Int64Counter
	parseFailures   metric.Int64Counter
	compileFailures metric.Int64Counter
	evaluations     metric.Int64Counter
	parseDuration   metric.Float64Histogram
	evalDuration    metric.Float64Histogram
}

// NewMetrics creates the sepal instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	parses, err := meter.Int64Counter("sepal.parse.total",
		metric.WithDescription("Number of expressions parsed"),
	)
	if err != nil {
		return nil, err
	}

	parseFailures, err := meter.Int64Counter("sepal.parse.failures",
		metric.WithDescription("Number of expressions rejected at parse time"),
	)
	if err != nil {
		return nil, err
	}

	compileFailures, err := meter.Int64Counter("sepal.compile.failures",
		metric.WithDescription("Number of trees rejected at compile time"),
	)
	if err != nil {
		return nil, err
	}

	evaluations, err := meter.Int64Counter("sepal.eval.total",
		metric.WithDescription("Number of predicate evaluations"),
	)
	if err != nil {
		return nil, err
	}

	parseDuration, err := meter.Float64Histogram("sepal.parse.duration",
		metric.WithDescription("Duration of expression parsing in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	evalDuration, err := meter.Float64Histogram("sepal.eval.duration",
		metric.WithDescription("Duration of predicate evaluation in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		parses:          parses,
		parseFailures:   parseFailures,
		compileFailures: compileFailures,
		evaluations:     evaluations,
		parseDuration:   parseDuration,
		evalDuration:    evalDuration,
	}, nil
}

// RecordParse records one parse attempt and its outcome.
func (m *Metrics) RecordParse(ctx context.Context, exprID string, elapsed time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("sepal.expression_id", exprID),
	)
	m.parses.Add(ctx, 1, attrs)
	m.parseDuration.Record(ctx, elapsed.Seconds(), attrs)
	if err != nil {
		m.parseFailures.Add(ctx, 1, attrs)
	}
}

// RecordCompile records one compile attempt; only failures are counted.
func (m *Metrics) RecordCompile(ctx context.Context, exprID string, err error) {
	if err == nil {
		return
	}
	m.compileFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("sepal.expression_id", exprID),
	))
}

// RecordEval records one predicate evaluation and whether it matched.
func (m *Metrics) RecordEval(ctx context.Context, exprID string, matched bool, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("sepal.expression_id", exprID),
		attribute.Bool("sepal.matched", matched),
	)
	m.evaluations.Add(ctx, 1, attrs)
	m.evalDuration.Record(ctx, elapsed.Seconds(), attrs)
}
