// Package loader reads record and shape documents for sepal predicates.
// Documents are flat mappings in YAML or JSON, selected by file extension
// (.yaml/.yml parse as YAML, everything else as JSON).
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/petal-labs/sepal"
)

// LoadShape reads a shape document: field name → kind name, where a kind
// name is one of string, integer, boolean or date.
func LoadShape(path string) (sepal.RecordShape, error) {
	raw, err := loadMap(path)
	if err != nil {
		return nil, err
	}

	shape := make(sepal.RecordShape, len(raw))
	for name, v := range raw {
		kindName, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("shape field %q: kind must be a string, got %T", name, v)
		}
		kind, ok := sepal.KindFromName(kindName)
		if !ok {
			return nil, fmt.Errorf("shape field %q: unknown kind %q", name, kindName)
		}
		shape[name] = kind
	}
	return shape, nil
}

// LoadRecord reads a record document (field name → value) and coerces each
// value to its kind in the shape. Fields absent from the shape are carried
// as-is; the compiler only looks at fields an expression names.
func LoadRecord(path string, shape sepal.RecordShape) (sepal.Record, error) {
	raw, err := loadMap(path)
	if err != nil {
		return nil, err
	}
	return coerceRecord(raw, shape)
}

// LoadRecordInferred reads a record document and infers its shape from the
// values. Used when no shape document is supplied.
func LoadRecordInferred(path string) (sepal.Record, sepal.RecordShape, error) {
	raw, err := loadMap(path)
	if err != nil {
		return nil, nil, err
	}
	shape := InferShape(raw)
	record, err := coerceRecord(raw, shape)
	if err != nil {
		return nil, nil, err
	}
	return record, shape, nil
}

// InferShape derives a shape from a raw record using the same ordered
// sniffing the compiler applies to literals: date-shaped strings become
// dates before strings, then integers and booleans by value type. Values of
// other types are left out of the shape, so expressions referencing them
// fail with an unknown-field error at compile time.
func InferShape(raw map[string]any) sepal.RecordShape {
	shape := make(sepal.RecordShape, len(raw))
	for name, v := range raw {
		switch val := v.(type) {
		case time.Time:
			shape[name] = sepal.KindDate
		case string:
			if _, err := time.Parse(sepal.DateLayout, val); err == nil {
				shape[name] = sepal.KindDate
			} else {
				shape[name] = sepal.KindString
			}
		case bool:
			shape[name] = sepal.KindBool
		case int, int64, float64:
			shape[name] = sepal.KindInt
		}
	}
	return shape
}

func coerceRecord(raw map[string]any, shape sepal.RecordShape) (sepal.Record, error) {
	record := make(sepal.Record, len(raw))
	for name, v := range raw {
		kind, ok := shape[name]
		if !ok {
			record[name] = v
			continue
		}
		cv, err := coerce(v, kind)
		if err != nil {
			return nil, fmt.Errorf("record field %q: %w", name, err)
		}
		record[name] = cv
	}
	return record, nil
}

// coerce converts a decoded document value to the Go type the compiler
// expects for the kind. YAML yields int and sometimes time.Time; JSON
// yields float64 and strings.
func coerce(v any, kind sepal.Kind) (any, error) {
	switch kind {
	case sepal.KindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil

	case sepal.KindInt:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case float64:
			if n != float64(int(n)) {
				return nil, fmt.Errorf("expected integer, got %v", n)
			}
			return int(n), nil
		}
		return nil, fmt.Errorf("expected integer, got %T", v)

	case sepal.KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", v)
		}
		return b, nil

	case sepal.KindDate:
		switch d := v.(type) {
		case time.Time:
			return d, nil
		case string:
			t, err := time.Parse(sepal.DateLayout, d)
			if err != nil {
				return nil, fmt.Errorf("expected %s date: %w", sepal.DateLayout, err)
			}
			return t, nil
		}
		return nil, fmt.Errorf("expected date, got %T", v)
	}
	return nil, fmt.Errorf("unknown kind %s", kind)
}

func loadMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path from caller
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	var raw map[string]any
	if isYAML(path) {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	}
	return raw, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
