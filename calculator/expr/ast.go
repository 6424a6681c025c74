package expr

import "strconv"

// Node is an element of a parsed expression tree
type Node interface {
	// Pos returns the byte offset in the source the node starts at
	Pos() int
	// String renders the node in fully parenthesized form
	String() string
}

// NumberLit is a numeric literal
type NumberLit struct {
	Value float64
	Text  string
	At    int
}

// UnaryExpr is a sign applied to an operand, e.g. -3
type UnaryExpr struct {
	Op Kind
	X  Node
	At int
}

// BinaryExpr is an infix operation; At is the offset of the operator
type BinaryExpr struct {
	Op   Kind
	X, Y Node
	At   int
}

func (n *NumberLit) Pos() int  { return n.At }
func (n *UnaryExpr) Pos() int  { return n.At }
func (n *BinaryExpr) Pos() int { return n.X.Pos() }

func (n *NumberLit) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (n *UnaryExpr) String() string {
	return "(" + opSymbol(n.Op) + n.X.String() + ")"
}

func (n *BinaryExpr) String() string {
	return "(" + n.X.String() + " " + opSymbol(n.Op) + " " + n.Y.String() + ")"
}

func opSymbol(k Kind) string {
	switch k {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Star:
		return "*"
	case Slash:
		return "/"
	}
	return "?"
}
