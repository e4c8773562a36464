package sepal

import (
	"errors"
	"fmt"
)

var (
	// ErrUnbalancedParens reports a parenthesis with no matching partner.
	ErrUnbalancedParens = errors.New("unbalanced parentheses")

	// ErrMalformed reports an expression whose operators and operands do
	// not line up: too many operators, too few operands, or an empty input.
	ErrMalformed = errors.New("malformed expression")

	// ErrNotBoolean reports an expression that compiles to a non-boolean
	// value and therefore cannot serve as a predicate.
	ErrNotBoolean = errors.New("expression does not evaluate to a boolean")
)

// ConditionLimitError is returned when the pre-parse condition count
// exceeds Limits.MaxConditions.
type ConditionLimitError struct {
	Count int // conditions found
	Limit int // configured maximum
}

func (e *ConditionLimitError) Error() string {
	return fmt.Sprintf("expression has %d conditions, limit is %d", e.Count, e.Limit)
}

// DepthLimitError is returned when a constructed subtree exceeds
// Limits.MaxDepth.
type DepthLimitError struct {
	Depth int // depth of the offending subtree
	Limit int // configured maximum
}

func (e *DepthLimitError) Error() string {
	return fmt.Sprintf("expression tree depth %d exceeds limit %d", e.Depth, e.Limit)
}

// UnknownFieldError is returned by Compile when a leaf references a field
// absent from the record shape.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q", e.Name)
}

// UnsupportedOperatorError is returned by Compile for an internal node
// whose value is not one of the recognized operators.
type UnsupportedOperatorError struct {
	Symbol string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator %q", e.Symbol)
}

// TypeMismatchError is returned by Compile when an operator is applied to
// operand kinds it cannot compare or combine.
type TypeMismatchError struct {
	Op    Op
	Left  Kind // KindInvalid for unary operators
	Right Kind
}

func (e *TypeMismatchError) Error() string {
	if e.Op == OpNot {
		return fmt.Sprintf("operator %s requires a boolean operand, got %s", e.Op, e.Right)
	}
	return fmt.Sprintf("operator %s cannot combine %s and %s", e.Op, e.Left, e.Right)
}
