package console

import (
	"fmt"
	"io"
	"os"
)

// --- ANSI color codes ---
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

// Printer writes coloured progress lines for humans running the CLI.
type Printer struct {
	out   io.Writer
	color bool
}

func New(out io.Writer, color bool) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out, color: color}
}

func (p *Printer) paint(color, s string) string {
	if !p.color {
		return s
	}
	return color + s + colorReset
}

func (p *Printer) Header(title string) {
	line := "============================================================"
	fmt.Fprintln(p.out, p.paint(colorCyan, line))
	fmt.Fprintln(p.out, p.paint(colorCyan, title))
	fmt.Fprintln(p.out, p.paint(colorCyan, line))
}

func (p *Printer) Step(format string, args ...any) {
	fmt.Fprintf(p.out, "🔄 %s\n", p.paint(colorBlue, fmt.Sprintf(format, args...)))
}

func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.out, "📊 %s\n", fmt.Sprintf(format, args...))
}

func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.out, "✅ %s\n", p.paint(colorGreen, fmt.Sprintf(format, args...)))
}

func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintf(p.out, "⚠️  %s\n", p.paint(colorYellow, fmt.Sprintf(format, args...)))
}

func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintf(p.out, "❌ %s\n", p.paint(colorRed, fmt.Sprintf(format, args...)))
}
