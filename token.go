package sepal

import (
	"fmt"
	"strings"
)

// Op identifies a recognized operator. The set is closed: the parser only
// builds internal nodes for these six operators, and the compiler rejects
// any other internal-node value at compile time.
type Op int

const (
	OpInvalid Op = iota
	OpOr
	OpAnd
	OpEq
	OpGt
	OpLt
	OpNot
)

// opParen is the open-parenthesis sentinel used on the parser's operator
// stack. It is not a real operator: nothing reduces past it except a
// closing parenthesis.
const opParen Op = -1

var opSymbols = map[Op]string{
	OpOr:  "or",
	OpAnd: "and",
	OpEq:  "==",
	OpGt:  ">",
	OpLt:  "<",
	OpNot: "!",
}

// opPrecedence orders operators from loosest to tightest binding.
// Ties reduce left-to-right.
var opPrecedence = map[Op]int{
	OpOr:  1,
	OpAnd: 2,
	OpEq:  3,
	OpGt:  3,
	OpLt:  3,
	OpNot: 4,
}

func (o Op) String() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Precedence returns the operator's binding strength; higher binds tighter.
func (o Op) Precedence() int {
	return opPrecedence[o]
}

// LookupOp maps a token to its operator, reporting whether the token is one
// of the six recognized operator symbols.
func LookupOp(token string) (Op, bool) {
	switch token {
	case "or":
		return OpOr, true
	case "and":
		return OpAnd, true
	case "==":
		return OpEq, true
	case ">":
		return OpGt, true
	case "<":
		return OpLt, true
	case "!":
		return OpNot, true
	}
	return OpInvalid, false
}

var parenPadding = strings.NewReplacer("(", " ( ", ")", " ) ")

// Tokenize splits an expression into token strings: every parenthesis is
// padded with surrounding spaces, then the result is split on runs of
// whitespace.
//
// The split is lossy by design. Operators and operands must already be
// whitespace-separated ("a == 3", never "a==3"), and quoted strings with
// embedded spaces are split apart. "!c" survives as a single token and is
// treated by the parser as prefix negation of the operand "c".
func Tokenize(expression string) []string {
	return strings.Fields(parenPadding.Replace(expression))
}
