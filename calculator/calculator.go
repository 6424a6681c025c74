// Package calculator implements an accumulator calculator that can also
// evaluate free-form arithmetic expressions.
package calculator

// Calculator represents a simple calculator with a single result register.
// A Calculator is not safe for concurrent use.
type Calculator struct {
	result float64
}

// NewCalculator creates a new calculator with a zero result
func NewCalculator() *Calculator {
	return &Calculator{result: 0}
}

// Add adds a number to the result and returns the new result
func (c *Calculator) Add(value float64) float64 {
	c.result += value
	return c.result
}

// Subtract subtracts a number from the result and returns the new result
func (c *Calculator) Subtract(value float64) float64 {
	c.result -= value
	return c.result
}

// Multiply multiplies the result by a number and returns the new result
func (c *Calculator) Multiply(value float64) float64 {
	c.result *= value
	return c.result
}

// Divide divides the result by a number and returns the new result.
// Dividing by zero returns ErrDivisionByZero and leaves the result unchanged.
func (c *Calculator) Divide(value float64) (float64, error) {
	if value == 0 {
		return c.result, &Error{Op: "divide", Pos: -1, Err: ErrDivisionByZero}
	}
	c.result /= value
	return c.result, nil
}

// Clear resets the result to zero
func (c *Calculator) Clear() {
	c.result = 0
}

// Result returns the current result
func (c *Calculator) Result() float64 {
	return c.result
}
