package expr

import (
	"fmt"
	"strconv"
)

// SyntaxError reports a malformed expression
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// Parse builds an expression tree from the input.
//
// Grammar, lowest precedence first:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | primary
//	primary = number | "(" expr ")"
func Parse(input string) (Node, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	if p.peek().Kind == EOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}

	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	// Everything must have been consumed
	if tok := p.peek(); tok.Kind != EOF {
		if tok.Kind == RParen {
			return nil, &SyntaxError{Pos: tok.Pos, Msg: "unmatched ')'"}
		}
		return nil, &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("unexpected %s", tok)}
	}

	return node, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		if op.Kind != Plus && op.Kind != Minus {
			return left, nil
		}
		p.next()

		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Kind, X: left, Y: right, At: op.Pos}
	}
}

func (p *parser) parseTerm() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		if op.Kind != Star && op.Kind != Slash {
			return left, nil
		}
		p.next()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: op.Kind, X: left, Y: right, At: op.Pos}
	}
}

func (p *parser) parseUnary() (Node, error) {
	tok := p.peek()
	if tok.Kind == Plus || tok.Kind == Minus {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: tok.Kind, X: operand, At: tok.Pos}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.next()

	switch tok.Kind {
	case Number:
		value, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("invalid number %q", tok.Text)}
		}
		return &NumberLit{Value: value, Text: tok.Text, At: tok.Pos}, nil

	case LParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.Kind != RParen {
			return nil, &SyntaxError{Pos: tok.Pos, Msg: "missing closing parenthesis"}
		}
		return inner, nil

	case EOF:
		return nil, &SyntaxError{Pos: tok.Pos, Msg: "unexpected end of expression"}
	}

	return nil, &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("expected number, found %s", tok)}
}
