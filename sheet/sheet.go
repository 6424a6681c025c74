// Package sheet implements calc sheets: plain text files where each line is
// an accumulator command or an expression, run in order against a single
// calculator.
//
//	# running total
//	add 10
//	divide 4
//	calc (2 + 3) * 4
//	= 1 / 3
//	2 + 2
//	clear
package sheet

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// Op is a sheet instruction type
type Op string

const (
	OpAdd       Op = "add"
	OpSubtract  Op = "subtract"
	OpMultiply  Op = "multiply"
	OpDivide    Op = "divide"
	OpCalculate Op = "calc"
	OpClear     Op = "clear"
)

// aliases maps every accepted command word to its instruction
var aliases = map[string]Op{
	"add":      OpAdd,
	"sub":      OpSubtract,
	"subtract": OpSubtract,
	"mul":      OpMultiply,
	"multiply": OpMultiply,
	"div":      OpDivide,
	"divide":   OpDivide,
	"calc":     OpCalculate,
	"=":        OpCalculate,
	"clear":    OpClear,
}

// Instruction is a single parsed sheet line
type Instruction struct {
	Line int
	Op   Op
	// Operand is set for add, subtract, multiply and divide
	Operand float64
	// Expr is set for calc
	Expr string
	// Source is the original line with comments stripped
	Source string
}

// Sheet is a parsed calc sheet
type Sheet struct {
	Name         string
	Instructions []Instruction
}

// ParseError reports a line that could not be understood
type ParseError struct {
	Name string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.Name, e.Line, e.Msg)
}

// Load reads and parses a sheet file
func Load(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet: %w", err)
	}
	defer f.Close()

	return Parse(path, f)
}

// Parse reads a sheet from r. Blank lines and comments starting with '#'
// are skipped.
func Parse(name string, r io.Reader) (*Sheet, error) {
	s := &Sheet{Name: name}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++

		inst, ok, err := ParseLine(scanner.Text())
		if err != nil {
			return nil, &ParseError{Name: name, Line: lineNum, Msg: err.Error()}
		}
		if !ok {
			continue
		}
		inst.Line = lineNum
		s.Instructions = append(s.Instructions, inst)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}

	return s, nil
}

// ParseLine parses a single line. ok is false for blank and comment lines.
func ParseLine(line string) (inst Instruction, ok bool, err error) {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return Instruction{}, false, nil
	}

	// "=expr" needs no space after the marker
	if strings.HasPrefix(line, "=") {
		line = "= " + strings.TrimSpace(line[1:])
	}

	word, rest := line, ""
	if idx := strings.IndexFunc(line, unicode.IsSpace); idx >= 0 {
		word, rest = line[:idx], strings.TrimSpace(line[idx:])
	}

	op, known := aliases[strings.ToLower(word)]
	if !known {
		// Anything else is treated as a bare expression
		return Instruction{Op: OpCalculate, Expr: line, Source: line}, true, nil
	}

	inst = Instruction{Op: op, Source: line}
	switch op {
	case OpClear:
		if rest != "" {
			return Instruction{}, false, fmt.Errorf("clear takes no operand, got %q", rest)
		}
	case OpCalculate:
		if rest == "" {
			return Instruction{}, false, fmt.Errorf("%s requires an expression", word)
		}
		inst.Expr = rest
	default:
		if rest == "" {
			return Instruction{}, false, fmt.Errorf("%s requires a number", word)
		}
		value, err := strconv.ParseFloat(rest, 64)
		if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
			return Instruction{}, false, fmt.Errorf("invalid number %q", rest)
		}
		inst.Operand = value
	}

	return inst, true, nil
}
