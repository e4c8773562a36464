package sepal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind classifies the value a field or literal carries.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindBool
	KindDate
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindString:  "string",
	KindInt:     "integer",
	KindBool:    "boolean",
	KindDate:    "date",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// KindFromName maps a shape-document kind name to a Kind.
func KindFromName(name string) (Kind, bool) {
	switch strings.ToLower(name) {
	case "string":
		return KindString, true
	case "integer", "int":
		return KindInt, true
	case "boolean", "bool":
		return KindBool, true
	case "date":
		return KindDate, true
	}
	return KindInvalid, false
}

// RecordShape enumerates the fields a predicate may reference, by kind.
// It is the only description of the host record the compiler ever sees.
type RecordShape map[string]Kind

// Record is one concrete record instance. Values are string, int, bool or
// time.Time, matching the shape's kinds.
type Record map[string]any

// Predicate reports whether a record matches a compiled expression. It is
// total: a compiled predicate never fails, and it is safe to call
// concurrently and repeatedly.
type Predicate func(Record) bool

// DateLayout is the calendar-date literal format.
const DateLayout = "2006-01-02"

// evalFunc produces a value of the compiled node's kind. The dynamic type
// is fixed at compile time: string, int, bool or time.Time.
type evalFunc func(Record) any

// Compile walks a parsed tree and produces a predicate over records of the
// given shape. Unsupported operators, unknown fields and operand kind
// mismatches are all rejected here, once, so the returned predicate cannot
// fail at evaluation time.
func Compile(root *Node, shape RecordShape) (Predicate, error) {
	if root == nil {
		return nil, ErrMalformed
	}
	c := compiler{shape: shape}
	fn, kind, err := c.compile(root)
	if err != nil {
		return nil, err
	}
	if kind != KindBool {
		return nil, ErrNotBoolean
	}
	return func(r Record) bool { return fn(r).(bool) }, nil
}

type compiler struct {
	shape RecordShape
}

func (c *compiler) compile(n *Node) (evalFunc, Kind, error) {
	if n.IsLeaf() {
		return c.compileLeaf(n.Value)
	}

	op, ok := LookupOp(n.Value)
	if !ok {
		return nil, KindInvalid, &UnsupportedOperatorError{Symbol: n.Value}
	}

	if op == OpNot {
		right, kind, err := c.compile(n.Right)
		if err != nil {
			return nil, KindInvalid, err
		}
		if kind != KindBool {
			return nil, KindInvalid, &TypeMismatchError{Op: op, Right: kind}
		}
		return func(r Record) any { return !right(r).(bool) }, KindBool, nil
	}

	if n.Left == nil || n.Right == nil {
		// A binary node missing an operand only occurs in hand-built
		// trees; Parse never produces one.
		return nil, KindInvalid, ErrMalformed
	}

	left, lk, err := c.compile(n.Left)
	if err != nil {
		return nil, KindInvalid, err
	}
	right, rk, err := c.compile(n.Right)
	if err != nil {
		return nil, KindInvalid, err
	}

	switch op {
	case OpAnd:
		if lk != KindBool || rk != KindBool {
			return nil, KindInvalid, &TypeMismatchError{Op: op, Left: lk, Right: rk}
		}
		return func(r Record) any {
			if !left(r).(bool) {
				return false
			}
			return right(r).(bool)
		}, KindBool, nil

	case OpOr:
		if lk != KindBool || rk != KindBool {
			return nil, KindInvalid, &TypeMismatchError{Op: op, Left: lk, Right: rk}
		}
		return func(r Record) any {
			if left(r).(bool) {
				return true
			}
			return right(r).(bool)
		}, KindBool, nil

	case OpEq:
		if lk != rk {
			return nil, KindInvalid, &TypeMismatchError{Op: op, Left: lk, Right: rk}
		}
		if lk == KindDate {
			return func(r Record) any {
				return left(r).(time.Time).Equal(right(r).(time.Time))
			}, KindBool, nil
		}
		return func(r Record) any { return left(r) == right(r) }, KindBool, nil

	case OpGt:
		if lk != rk || !ordered(lk) {
			return nil, KindInvalid, &TypeMismatchError{Op: op, Left: lk, Right: rk}
		}
		if lk == KindDate {
			return func(r Record) any {
				return left(r).(time.Time).After(right(r).(time.Time))
			}, KindBool, nil
		}
		return func(r Record) any { return left(r).(int) > right(r).(int) }, KindBool, nil

	case OpLt:
		if lk != rk || !ordered(lk) {
			return nil, KindInvalid, &TypeMismatchError{Op: op, Left: lk, Right: rk}
		}
		if lk == KindDate {
			return func(r Record) any {
				return left(r).(time.Time).Before(right(r).(time.Time))
			}, KindBool, nil
		}
		return func(r Record) any { return left(r).(int) < right(r).(int) }, KindBool, nil

	default:
		return nil, KindInvalid, &UnsupportedOperatorError{Symbol: n.Value}
	}
}

// ordered reports whether a kind supports > and <.
func ordered(k Kind) bool {
	return k == KindInt || k == KindDate
}

// compileLeaf classifies a leaf token and produces its evaluator. The
// classification order is a contract: date before string, string before
// integer, integer before boolean, and anything left is a field reference
// resolved against the record shape.
func (c *compiler) compileLeaf(token string) (evalFunc, Kind, error) {
	unquoted, quoted := stripQuotes(token)

	if t, err := time.Parse(DateLayout, unquoted); err == nil {
		return constEval(t), KindDate, nil
	}
	if quoted {
		return constEval(unquoted), KindString, nil
	}
	if i, err := strconv.Atoi(token); err == nil {
		return constEval(i), KindInt, nil
	}
	if token == "true" || token == "false" {
		return constEval(token == "true"), KindBool, nil
	}

	kind, ok := c.shape[token]
	if !ok || kind == KindInvalid {
		return nil, KindInvalid, &UnknownFieldError{Name: token}
	}
	return fieldEval(token, kind), kind, nil
}

func constEval(v any) evalFunc {
	return func(Record) any { return v }
}

// fieldEval resolves a field at evaluation time, coercing whatever the
// record holds to the shape's kind. Missing or mistyped values become the
// kind's zero value so compiled predicates stay total.
func fieldEval(name string, kind Kind) evalFunc {
	switch kind {
	case KindString:
		return func(r Record) any {
			v, _ := r[name].(string)
			return v
		}
	case KindInt:
		return func(r Record) any { return asInt(r[name]) }
	case KindBool:
		return func(r Record) any {
			v, _ := r[name].(bool)
			return v
		}
	default: // KindDate
		return func(r Record) any { return asDate(r[name]) }
	}
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func asDate(v any) time.Time {
	switch d := v.(type) {
	case time.Time:
		return d
	case string:
		if t, err := time.Parse(DateLayout, d); err == nil {
			return t
		}
	}
	return time.Time{}
}

// stripQuotes removes one pair of surrounding single quotes, reporting
// whether the token was quote-delimited.
func stripQuotes(token string) (string, bool) {
	if len(token) >= 2 && strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") {
		return token[1 : len(token)-1], true
	}
	return token, false
}
