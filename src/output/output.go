// Package output renders pipeline progress to the terminal. Color is
// applied only when the destination is a terminal and the environment
// does not opt out.
package output

import (
	"fmt"
	"io"
	"os"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// Printer formats and writes pipeline step output.
type Printer struct {
	Writer io.Writer
	Color  bool
}

// NewPrinter creates a printer writing to stdout with color auto-detection.
func NewPrinter() *Printer {
	return &Printer{
		Writer: os.Stdout,
		Color:  UseColor(),
	}
}

// Step writes a numbered pipeline step header.
func (p *Printer) Step(n int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.Writer, "%s %s\n", p.colorize(fmt.Sprintf("Step %d:", n), colorBold), msg)
}

// Success writes a checkmarked success line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.Writer, "%s %s\n", p.colorize("✓", colorGreen), fmt.Sprintf(format, args...))
}

// Fail writes a cross-marked failure line.
func (p *Printer) Fail(format string, args ...any) {
	fmt.Fprintf(p.Writer, "%s %s\n", p.colorize("✗", colorRed), fmt.Sprintf(format, args...))
}

// Skip writes a line for a step that was deliberately not run.
func (p *Printer) Skip(format string, args ...any) {
	fmt.Fprintf(p.Writer, "%s %s\n", p.colorize("⊘", colorGray), fmt.Sprintf(format, args...))
}

// Detail writes an indented informational line.
func (p *Printer) Detail(format string, args ...any) {
	fmt.Fprintf(p.Writer, "  %s\n", fmt.Sprintf(format, args...))
}

// Blank writes an empty line.
func (p *Printer) Blank() {
	fmt.Fprintln(p.Writer)
}

// Highlight returns text wrapped in cyan when color is enabled.
func (p *Printer) Highlight(text string) string {
	return p.colorize(text, colorCyan)
}

// Warn returns text wrapped in yellow when color is enabled.
func (p *Printer) Warn(text string) string {
	return p.colorize(text, colorYellow)
}

func (p *Printer) colorize(text, color string) string {
	if !p.Color {
		return text
	}
	return color + text + colorReset
}

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal()
}
