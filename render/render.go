// Package render formats calculator results and sheet reports for the terminal
package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/bond-kaneko/go-calc-watcher/sheet"
)

// Printer writes results using a fixed number format and style set
type Printer struct {
	precision int
	title     lipgloss.Style
	ok        lipgloss.Style
	fail      lipgloss.Style
	dim       lipgloss.Style
}

// NewPrinter creates a printer. A negative precision prints the shortest
// representation that round-trips; color can be turned off for plain output.
func NewPrinter(precision int, color bool) *Printer {
	p := &Printer{
		precision: precision,
		title:     lipgloss.NewStyle(),
		ok:        lipgloss.NewStyle(),
		fail:      lipgloss.NewStyle(),
		dim:       lipgloss.NewStyle(),
	}
	if color {
		p.title = p.title.Bold(true)
		p.ok = p.ok.Foreground(lipgloss.Color("2"))
		p.fail = p.fail.Foreground(lipgloss.Color("1")).Bold(true)
		p.dim = p.dim.Foreground(lipgloss.Color("8"))
	}
	return p
}

// Format renders a number
func (p *Printer) Format(v float64) string {
	if p.precision < 0 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', p.precision, 64)
}

// Value writes a bare result
func (p *Printer) Value(w io.Writer, v float64) {
	fmt.Fprintln(w, p.ok.Render(p.Format(v)))
}

// Error writes an error line
func (p *Printer) Error(w io.Writer, err error) {
	fmt.Fprintln(w, p.fail.Render("error: "+err.Error()))
}

// Line writes the outcome of one sheet instruction
func (p *Printer) Line(w io.Writer, res sheet.LineResult) {
	inst := res.Instruction
	prefix := p.dim.Render(fmt.Sprintf("%4d", inst.Line))

	if res.Err != nil {
		fmt.Fprintf(w, "%s  %-24s %s\n", prefix, inst.Source, p.fail.Render("error: "+res.Err.Error()))
		return
	}
	fmt.Fprintf(w, "%s  %-24s %s\n", prefix, inst.Source, p.ok.Render(p.Format(res.Value)))
}

// Report writes a full sheet report followed by a summary line
func (p *Printer) Report(w io.Writer, rep *sheet.Report) {
	fmt.Fprintln(w, p.title.Render(rep.Name))
	for _, res := range rep.Results {
		p.Line(w, res)
	}

	summary := "= " + p.Format(rep.Final)
	if failed := rep.Failed(); failed > 0 {
		fmt.Fprintf(w, "%s  %s\n", summary, p.fail.Render(fmt.Sprintf("(%d failed)", failed)))
		return
	}
	fmt.Fprintln(w, p.ok.Render(summary))
}
