package sheet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bond-kaneko/go-calc-watcher/calculator"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		ok      bool
		op      Op
		operand float64
		expr    string
	}{
		{"", false, "", 0, ""},
		{"   # just a comment", false, "", 0, ""},
		{"add 10", true, OpAdd, 10, ""},
		{"ADD\t-2.5", true, OpAdd, -2.5, ""},
		{"sub 3", true, OpSubtract, 3, ""},
		{"multiply 4 # times four", true, OpMultiply, 4, ""},
		{"div 2", true, OpDivide, 2, ""},
		{"calc (2 + 3) * 4", true, OpCalculate, 0, "(2 + 3) * 4"},
		{"= 1/3", true, OpCalculate, 0, "1/3"},
		{"=1/3", true, OpCalculate, 0, "1/3"},
		{"2 + 2", true, OpCalculate, 0, "2 + 2"},
		{"-5", true, OpCalculate, 0, "-5"},
		{"clear", true, OpClear, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			inst, ok, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.op, inst.Op)
			assert.Equal(t, tt.operand, inst.Operand)
			assert.Equal(t, tt.expr, inst.Expr)
		})
	}
}

func TestParseLineErrors(t *testing.T) {
	for _, line := range []string{"add", "add ten", "div 1e999", "clear 3", "calc", "mul NaN"} {
		t.Run(line, func(t *testing.T) {
			_, _, err := ParseLine(line)
			assert.Error(t, err)
		})
	}
}

func TestParseReportsLine(t *testing.T) {
	_, err := Parse("totals.calc", strings.NewReader("add 1\n\nadd x\n"))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Line)
	assert.Equal(t, `totals.calc:3: invalid number "x"`, err.Error())
}

func TestRun(t *testing.T) {
	src := `# running total
add 10
divide 5
divide 0
calc 2 + a
multiply 3
= (2 + 3) * 4
clear
sub 1.5
`
	s, err := Parse("demo", strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, s.Instructions, 8)
	assert.Equal(t, 2, s.Instructions[0].Line)

	report := s.Run(calculator.NewCalculator())

	values := make([]float64, 0, len(report.Results))
	for _, res := range report.Results {
		values = append(values, res.Value)
	}
	assert.Equal(t, []float64{10, 2, 2, 2, 6, 20, 0, -1.5}, values)

	assert.ErrorIs(t, report.Results[2].Err, calculator.ErrDivisionByZero)
	assert.ErrorIs(t, report.Results[3].Err, calculator.ErrInvalidCharacter)
	assert.Equal(t, 2, report.Failed())
	assert.False(t, report.OK())
	assert.Equal(t, -1.5, report.Final)
}

func TestExec(t *testing.T) {
	calc := calculator.NewCalculator()

	res, ok, err := Exec(calc, "add 4")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4.0, res.Value)

	res, ok, err = Exec(calc, "2 + (3 * 4")
	require.NoError(t, err)
	require.True(t, ok)
	assert.ErrorIs(t, res.Err, calculator.ErrInvalidExpression)
	assert.Equal(t, 4.0, calc.Result())

	_, ok, err = Exec(calc, "# nothing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.calc")
	require.NoError(t, os.WriteFile(path, []byte("add 2\nmul 21\n"), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Name)
	assert.Equal(t, 42.0, s.Run(calculator.NewCalculator()).Final)

	_, err = Load(filepath.Join(t.TempDir(), "missing.calc"))
	assert.Error(t, err)
}
