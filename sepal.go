// Package sepal implements a small, safe infix boolean-expression language
// for filtering records: comparisons (==, >, <), and/or, unary !,
// parenthesized grouping, and string/integer/boolean/date literals alongside
// bare field references.
//
// The pipeline is Parse (tokenize, then a dual-stack shunting-yard build of
// the expression tree, with configurable condition-count and depth limits)
// followed by Compile (resolve leaves against a caller-supplied record
// shape, type-check every operator once, and produce a total predicate).
// Expressions are stateless and side-effect-free: parsing is independent per
// call, and a compiled Predicate is a pure function safe for concurrent use.
//
// Lexical constraint: tokens are whitespace-separated (parentheses
// excepted), so "a==3" is not two tokens and quoted strings cannot contain
// spaces. See Tokenize.
package sepal

// Match parses, compiles and evaluates an expression against a single
// record in one call, using DefaultLimits. Callers evaluating many records
// should Parse and Compile once and reuse the predicate.
func Match(expression string, shape RecordShape, record Record) (bool, error) {
	root, err := Parse(expression)
	if err != nil {
		return false, err
	}
	pred, err := Compile(root, shape)
	if err != nil {
		return false, err
	}
	return pred(record), nil
}

// ValidateSyntax checks whether an expression parses within DefaultLimits.
// Returns nil if valid, or a parse error describing the problem.
func ValidateSyntax(expression string) error {
	_, err := Parse(expression)
	return err
}
