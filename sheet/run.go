package sheet

import (
	"fmt"

	"github.com/bond-kaneko/go-calc-watcher/calculator"
)

// LineResult is the outcome of one instruction
type LineResult struct {
	Instruction Instruction
	// Value is the calculator result after the instruction ran
	Value float64
	Err   error
}

// Report collects the results of running a sheet
type Report struct {
	Name    string
	Results []LineResult
	// Final is the calculator result after the last instruction
	Final float64
}

// Failed returns the number of instructions that returned an error
func (r *Report) Failed() int {
	failed := 0
	for _, res := range r.Results {
		if res.Err != nil {
			failed++
		}
	}
	return failed
}

// OK reports whether every instruction succeeded
func (r *Report) OK() bool {
	return r.Failed() == 0
}

// Run executes every instruction against calc. A failing instruction is
// recorded and execution moves on; the calculator keeps its previous result.
func (s *Sheet) Run(calc *calculator.Calculator) *Report {
	report := &Report{
		Name:    s.Name,
		Results: make([]LineResult, 0, len(s.Instructions)),
	}

	for _, inst := range s.Instructions {
		report.Results = append(report.Results, Apply(calc, inst))
	}
	report.Final = calc.Result()

	return report
}

// Apply executes a single instruction
func Apply(calc *calculator.Calculator, inst Instruction) LineResult {
	res := LineResult{Instruction: inst}

	switch inst.Op {
	case OpAdd:
		res.Value = calc.Add(inst.Operand)
	case OpSubtract:
		res.Value = calc.Subtract(inst.Operand)
	case OpMultiply:
		res.Value = calc.Multiply(inst.Operand)
	case OpDivide:
		res.Value, res.Err = calc.Divide(inst.Operand)
	case OpCalculate:
		res.Value, res.Err = calc.Calculate(inst.Expr)
	case OpClear:
		calc.Clear()
		res.Value = calc.Result()
	default:
		res.Value = calc.Result()
		res.Err = fmt.Errorf("unknown instruction %q", inst.Op)
	}

	return res
}

// Exec parses and applies a single line. ok is false when the line holds no
// instruction.
func Exec(calc *calculator.Calculator, line string) (res LineResult, ok bool, err error) {
	inst, ok, err := ParseLine(line)
	if err != nil || !ok {
		return LineResult{}, ok, err
	}
	return Apply(calc, inst), true, nil
}
