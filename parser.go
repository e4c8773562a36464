package sepal

// Limits bounds the size of expressions accepted by ParseWithLimits.
// A zero value disables the corresponding check.
type Limits struct {
	MaxConditions int // pre-parse condition count, per SplitConditions
	MaxDepth      int // tree depth, root at depth 0
}

// DefaultLimits returns the limits applied by Parse.
func DefaultLimits() Limits {
	return Limits{MaxConditions: 10, MaxDepth: 5}
}

// Parse parses an expression string into a tree, enforcing DefaultLimits.
func Parse(expression string) (*Node, error) {
	return ParseWithLimits(expression, DefaultLimits())
}

// ParseWithLimits parses an expression string into a tree using a
// dual-stack shunting-yard loop: operands collect on one stack, operators
// on the other, and the top operator reduces (pops its operands, pushes the
// built node back) whenever an incoming operator binds no tighter than it.
//
// The condition count is checked before parsing proper begins; the depth
// limit is checked on every node as it is constructed.
func ParseWithLimits(expression string, limits Limits) (*Node, error) {
	tokens := Tokenize(expression)

	if limits.MaxConditions > 0 {
		if n := len(SplitConditions(tokens)); n > limits.MaxConditions {
			return nil, &ConditionLimitError{Count: n, Limit: limits.MaxConditions}
		}
	}

	p := parser{maxDepth: limits.MaxDepth}
	for _, tok := range tokens {
		if err := p.consume(tok); err != nil {
			return nil, err
		}
	}
	return p.finish()
}

type parser struct {
	operands []*Node
	ops      []Op
	maxDepth int
}

func (p *parser) consume(tok string) error {
	if op, ok := LookupOp(tok); ok {
		for len(p.ops) > 0 {
			top := p.ops[len(p.ops)-1]
			if top == opParen || top.Precedence() < op.Precedence() {
				break
			}
			if err := p.reduce(); err != nil {
				return err
			}
		}
		p.ops = append(p.ops, op)
		return nil
	}

	switch {
	case tok == "(":
		p.ops = append(p.ops, opParen)
		return nil

	case tok == ")":
		for {
			if len(p.ops) == 0 {
				return ErrUnbalancedParens
			}
			if p.ops[len(p.ops)-1] == opParen {
				p.ops = p.ops[:len(p.ops)-1]
				return nil
			}
			if err := p.reduce(); err != nil {
				return err
			}
		}

	case len(tok) > 1 && tok[0] == '!':
		// Lexical prefix negation: "!c" is one token and bypasses the
		// operator stack. A standalone "!" is handled above as an operator.
		return p.push(&Node{Value: OpNot.String(), Right: &Node{Value: tok[1:]}})

	default:
		return p.push(&Node{Value: tok})
	}
}

// reduce pops the top operator and its operands and pushes the built node.
// "!" takes a single right operand; every other operator takes two.
func (p *parser) reduce() error {
	op := p.ops[len(p.ops)-1]
	p.ops = p.ops[:len(p.ops)-1]

	right, ok := p.popOperand()
	if !ok {
		return ErrMalformed
	}
	node := &Node{Value: op.String(), Right: right}
	if op != OpNot {
		left, ok := p.popOperand()
		if !ok {
			return ErrMalformed
		}
		node.Left = left
	}
	return p.push(node)
}

func (p *parser) push(n *Node) error {
	if p.maxDepth > 0 {
		if d := n.Depth(); d > p.maxDepth {
			return &DepthLimitError{Depth: d, Limit: p.maxDepth}
		}
	}
	p.operands = append(p.operands, n)
	return nil
}

func (p *parser) popOperand() (*Node, bool) {
	if len(p.operands) == 0 {
		return nil, false
	}
	n := p.operands[len(p.operands)-1]
	p.operands = p.operands[:len(p.operands)-1]
	return n, true
}

// finish drains the operator stack and returns the single remaining operand
// as the root of the tree.
func (p *parser) finish() (*Node, error) {
	for len(p.ops) > 0 {
		if p.ops[len(p.ops)-1] == opParen {
			return nil, ErrUnbalancedParens
		}
		if err := p.reduce(); err != nil {
			return nil, err
		}
	}
	if len(p.operands) != 1 {
		return nil, ErrMalformed
	}
	return p.operands[0], nil
}
