package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bond-kaneko/go-calc-watcher/calculator"
	"github.com/bond-kaneko/go-calc-watcher/sheet"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		precision int
		value     float64
		want      string
	}{
		{-1, 14, "14"},
		{-1, 2.5, "2.5"},
		{-1, 1.0 / 3, "0.3333333333333333"},
		{2, 1.0 / 3, "0.33"},
		{0, 20, "20"},
		{3, -1.5, "-1.500"},
	}

	for _, tt := range tests {
		p := NewPrinter(tt.precision, false)
		assert.Equal(t, tt.want, p.Format(tt.value))
	}
}

func TestReport(t *testing.T) {
	s, err := sheet.Parse("totals.calc", strings.NewReader("add 10\ndivide 0\n= 2 * 3\n"))
	require.NoError(t, err)
	rep := s.Run(calculator.NewCalculator())

	var buf bytes.Buffer
	NewPrinter(-1, false).Report(&buf, rep)
	out := buf.String()

	assert.Contains(t, out, "totals.calc")
	assert.Contains(t, out, "add 10")
	assert.Contains(t, out, "error: divide: cannot divide by zero")
	assert.Contains(t, out, "= 6")
	assert.Contains(t, out, "(1 failed)")
	assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 5)
}

func TestValueAndError(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(-1, false)

	p.Value(&buf, 14)
	_, err := calculator.Evaluate("2 + a")
	p.Error(&buf, err)

	assert.Contains(t, buf.String(), "14\n")
	assert.Contains(t, buf.String(), "error: calculate: invalid character")
}
