package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCharacter is returned when an expression contains a character
	// outside of digits, '.', the four operators and parentheses
	ErrInvalidCharacter = errors.New("invalid character in expression")
	// ErrDivisionByZero is returned when dividing by zero
	ErrDivisionByZero = errors.New("cannot divide by zero")
	// ErrInvalidExpression is returned for any other parse or evaluation failure
	ErrInvalidExpression = errors.New("invalid expression")
)

// Error describes a failed calculator operation. It wraps one of the
// sentinel errors above, so callers can match it with errors.Is.
type Error struct {
	// Op is the operation that failed, e.g. "divide" or "calculate"
	Op string
	// Expr is the sanitized expression, empty for accumulator operations
	Expr string
	// Pos is the offset in Expr the failure refers to, or -1
	Pos int
	// Err is the sentinel error
	Err error
	// Detail carries the underlying cause, if any
	Detail error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Err.Error()
	if e.Expr != "" {
		msg += fmt.Sprintf(" %q", e.Expr)
		if e.Pos >= 0 {
			msg += fmt.Sprintf(" at offset %d", e.Pos)
		}
	}
	if e.Detail != nil {
		msg += " (" + e.Detail.Error() + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
