package sepal

import "strings"

// Node is one node of a parsed expression tree. A leaf (both children nil)
// holds a literal or field name; an internal node holds an operator symbol.
// A "!" node has only a Right child. Children are exclusively owned by their
// parent: trees never share nodes and never cycle, and a tree is immutable
// once Parse returns it.
type Node struct {
	Value string
	Left  *Node
	Right *Node
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// String renders the fully parenthesized infix form of the tree: leaves as
// their text, unary negation as (!x), binary nodes as (left op right).
// Parsing the result reproduces a structurally equal tree.
func (n *Node) String() string {
	switch {
	case n == nil:
		return ""
	case n.IsLeaf():
		return n.Value
	case n.Left == nil:
		return "(" + n.Value + n.Right.String() + ")"
	default:
		return "(" + n.Left.String() + " " + n.Value + " " + n.Right.String() + ")"
	}
}

// PrettyLines renders the tree for diagnostics: one line per node, indented
// two spaces per level, each node before its children.
func (n *Node) PrettyLines() []string {
	var lines []string
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if n == nil {
			return
		}
		lines = append(lines, strings.Repeat("  ", depth)+n.Value)
		walk(n.Left, depth+1)
		walk(n.Right, depth+1)
	}
	walk(n, 0)
	return lines
}

// Equal reports structural equality: same shape and same node values.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.Value == other.Value && n.Left.Equal(other.Left) && n.Right.Equal(other.Right)
}

// Depth returns the number of edges on the longest path from n to a leaf.
// A lone leaf has depth 0.
func (n *Node) Depth() int {
	d := 0
	if n.Left != nil {
		if ld := n.Left.Depth() + 1; ld > d {
			d = ld
		}
	}
	if n.Right != nil {
		if rd := n.Right.Depth() + 1; rd > d {
			d = rd
		}
	}
	return d
}
