// Package expr parses and evaluates arithmetic expressions made of numbers,
// the four basic operators and parentheses.
//
// Expressions are turned into a token stream, parsed by a recursive-descent
// parser into a tree of Nodes, and evaluated by walking that tree. Nothing is
// ever executed as code.
package expr

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Kind identifies the type of a token
type Kind int

const (
	EOF Kind = iota
	Number
	Plus
	Minus
	Star
	Slash
	LParen
	RParen
)

var kindNames = map[Kind]string{
	EOF:    "end of expression",
	Number: "number",
	Plus:   "'+'",
	Minus:  "'-'",
	Star:   "'*'",
	Slash:  "'/'",
	LParen: "'('",
	RParen: "')'",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexical element of an expression
type Token struct {
	Kind Kind
	// Text is the literal source text of the token
	Text string
	// Pos is the byte offset of the token in the input
	Pos int
}

func (t Token) String() string {
	if t.Kind == Number {
		return t.Text
	}
	return t.Kind.String()
}

// Tokenize splits the input into tokens. Whitespace between tokens is skipped.
// The returned slice always ends with an EOF token.
func Tokenize(input string) ([]Token, error) {
	var tokens []Token

	pos := 0
	for pos < len(input) {
		ch, size := utf8.DecodeRuneInString(input[pos:])

		switch {
		case unicode.IsSpace(ch):
			pos += size
		case isDigit(input[pos]) || input[pos] == '.':
			start := pos
			for pos < len(input) && (isDigit(input[pos]) || input[pos] == '.') {
				pos++
			}
			tokens = append(tokens, Token{Kind: Number, Text: input[start:pos], Pos: start})
		default:
			kind, ok := operatorKinds[input[pos]]
			if !ok {
				return nil, &SyntaxError{Pos: pos, Msg: fmt.Sprintf("unexpected character %q", ch)}
			}
			tokens = append(tokens, Token{Kind: kind, Text: input[pos : pos+1], Pos: pos})
			pos++
		}
	}

	tokens = append(tokens, Token{Kind: EOF, Pos: len(input)})
	return tokens, nil
}

var operatorKinds = map[byte]Kind{
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
	'(': LParen,
	')': RParen,
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
