package expr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize(" 12 +(3.5*4)")
	require.NoError(t, err)

	kinds := make([]Kind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{Number, Plus, LParen, Number, Star, Number, RParen, EOF}, kinds)
	assert.Equal(t, "12", tokens[0].Text)
	assert.Equal(t, 1, tokens[0].Pos)
	assert.Equal(t, "3.5", tokens[3].Text)
	assert.Equal(t, 12, tokens[len(tokens)-1].Pos)
}

func TestTokenizeRejectsUnknownCharacter(t *testing.T) {
	_, err := Tokenize("2 + a")

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 4, syntaxErr.Pos)
}

func TestTokenizeWhitespace(t *testing.T) {
	// Unicode spaces are skipped like ASCII ones
	got, err := Evaluate("1\u00a0+\u20032")
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	// Stray bytes are not whitespace even if their value is a space code point
	_, err = Evaluate("1\x85+\xa02")
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 1, syntaxErr.Pos)
}

func TestParseTree(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1", "1"},
		{"1+2*3", "(1 + (2 * 3))"},
		{"(1+2)*3", "((1 + 2) * 3)"},
		{"8-4-2", "((8 - 4) - 2)"},
		{"8/4/2", "((8 / 4) / 2)"},
		{"-3*2", "((-3) * 2)"},
		{"2*-3", "(2 * (-3))"},
		{"--3", "(-(-3))"},
		{"((((7))))", "7"},
		{"1.50", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		pos   int
	}{
		{"", 0},
		{"   ", 0},
		{"2+(3*4", 2},
		{"2+3*4)", 5},
		{"()", 1},
		{"2+", 2},
		{"*2", 0},
		{"2 3", 2},
		{"1.2.3", 0},
		{".", 0},
		{"2**3", 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.pos, syntaxErr.Pos)
		})
	}
}

// The expected values are computed by the Go compiler, which serves as an
// independent evaluator with the same precedence rules.
func TestEvaluateMatchesGoArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"2 + 3 * 4", 2 + 3*4},
		{"(2 + 3) * 4", (2 + 3) * 4},
		{"10 - 6 / 2", 10 - 6.0/2},
		{"((2+3)*(4+5))", (2 + 3) * (4 + 5)},
		{"100 / 8 / 5", 100.0 / 8 / 5},
		{"1 - 2 - 3 - 4", 1 - 2 - 3 - 4},
		{"7 / 2", 7.0 / 2},
		{"-(4 - 10) * 3", -(4 - 10) * 3},
		{"2 * (3 + 4) - 5 / (1 + 1)", 2*(3+4) - 5.0/(1+1)},
		{"1.5 * 4", 1.5 * 4},
		{"3 - -3", 3 - -3},
		{"+5", +5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Evaluate(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	for _, input := range []string{"10/0", "10/(5-5)", "1/0.0", "3/(2*0)"} {
		t.Run(input, func(t *testing.T) {
			_, err := Evaluate(input)

			assert.True(t, errors.Is(err, ErrDivisionByZero), "got %v", err)

			var evalErr *EvalError
			require.ErrorAs(t, err, &evalErr)
		})
	}
}

func TestEvaluateOverflow(t *testing.T) {
	huge := "99999999999999999999999999999999999999999999999999"
	input := huge + "*" + huge
	for i := 0; i < 6; i++ {
		input = "(" + input + ")*" + huge
	}

	_, err := Evaluate(input)
	assert.ErrorIs(t, err, ErrNotFinite)
}
