package calculator

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/bond-kaneko/go-calc-watcher/calculator/expr"
)

var (
	// invalidChar matches anything outside the arithmetic alphabet
	invalidChar = regexp.MustCompile(`[^0-9+\-*/().]`)
	// literalZeroDivisor matches "/0" not followed by another digit
	literalZeroDivisor = regexp.MustCompile(`/0([^0-9]|$)`)
)

// Calculate evaluates an arithmetic expression, stores the value as the new
// result and returns it. Whitespace is ignored. On failure the result is
// left unchanged and the error wraps ErrInvalidCharacter, ErrDivisionByZero
// or ErrInvalidExpression.
func (c *Calculator) Calculate(expression string) (float64, error) {
	value, err := Evaluate(expression)
	if err != nil {
		return c.result, err
	}

	c.result = value
	return c.result, nil
}

// Evaluate computes an expression without touching any calculator state
func Evaluate(expression string) (float64, error) {
	sanitized := Sanitize(expression)

	// Validate the alphabet before parsing
	if loc := invalidChar.FindStringIndex(sanitized); loc != nil {
		return 0, &Error{Op: "calculate", Expr: sanitized, Pos: loc[0], Err: ErrInvalidCharacter}
	}

	// Catch the common literal case early
	if loc := literalZeroDivisor.FindStringIndex(sanitized); loc != nil {
		return 0, &Error{Op: "calculate", Expr: sanitized, Pos: loc[0], Err: ErrDivisionByZero}
	}

	value, err := expr.Evaluate(sanitized)
	if err != nil {
		return 0, classify(sanitized, err)
	}

	return value, nil
}

// Sanitize removes all whitespace from an expression
func Sanitize(expression string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, expression)
}

// classify maps parser and evaluator errors onto the calculator's error kinds
func classify(sanitized string, err error) error {
	calcErr := &Error{Op: "calculate", Expr: sanitized, Pos: -1, Err: ErrInvalidExpression, Detail: err}

	var syntaxErr *expr.SyntaxError
	var evalErr *expr.EvalError
	switch {
	case errors.As(err, &syntaxErr):
		calcErr.Pos = syntaxErr.Pos
	case errors.As(err, &evalErr):
		calcErr.Pos = evalErr.Pos
	}

	if errors.Is(err, expr.ErrDivisionByZero) {
		calcErr.Err = ErrDivisionByZero
	}
	return calcErr
}
