package expr

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDivisionByZero is returned when a divisor evaluates to zero
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNotFinite is returned when an intermediate value overflows
	ErrNotFinite = errors.New("result is not a finite number")
)

// EvalError reports a failure while evaluating a node
type EvalError struct {
	Pos int
	Err error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluation error at offset %d: %v", e.Pos, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// Eval computes the value of an expression tree
func Eval(node Node) (float64, error) {
	switch n := node.(type) {
	case *NumberLit:
		return n.Value, nil

	case *UnaryExpr:
		x, err := Eval(n.X)
		if err != nil {
			return 0, err
		}
		if n.Op == Minus {
			return -x, nil
		}
		return x, nil

	case *BinaryExpr:
		x, err := Eval(n.X)
		if err != nil {
			return 0, err
		}
		y, err := Eval(n.Y)
		if err != nil {
			return 0, err
		}
		return apply(n, x, y)
	}

	return 0, fmt.Errorf("unsupported node %T", node)
}

// Evaluate parses and evaluates the input in one step
func Evaluate(input string) (float64, error) {
	node, err := Parse(input)
	if err != nil {
		return 0, err
	}
	return Eval(node)
}

func apply(n *BinaryExpr, x, y float64) (float64, error) {
	var result float64

	switch n.Op {
	case Plus:
		result = x + y
	case Minus:
		result = x - y
	case Star:
		result = x * y
	case Slash:
		if y == 0 {
			return 0, &EvalError{Pos: n.At, Err: ErrDivisionByZero}
		}
		result = x / y
	default:
		return 0, fmt.Errorf("unsupported operator %s", n.Op)
	}

	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, &EvalError{Pos: n.At, Err: ErrNotFinite}
	}
	return result, nil
}
