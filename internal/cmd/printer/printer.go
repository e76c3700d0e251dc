// Package printer writes colored status lines for CLI commands.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Printer writes status lines to out and errors to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
}

// New creates a printer. Colors are off when noColor is set or NO_COLOR is
// present in the environment.
func New(out, errOut io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:    out,
		errOut: errOut,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed, color.Bold),
		cyan:   color.New(color.FgCyan),
	}
	if noColor || os.Getenv("NO_COLOR") != "" {
		for _, c := range []*color.Color{p.green, p.yellow, p.red, p.cyan} {
			c.DisableColor()
		}
	}
	return p
}

// Stdout creates a printer on the process's stdout and stderr.
func Stdout(noColor bool) *Printer {
	return New(os.Stdout, os.Stderr, noColor)
}

// Success prints a line in green with a checkmark prefix.
func (p *Printer) Success(format string, a ...any) {
	p.green.Fprintf(p.out, "✓ %s\n", strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

// Info prints a line in the default color.
func (p *Printer) Info(format string, a ...any) {
	fmt.Fprintf(p.out, "%s\n", strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

// Header prints a section title in cyan.
func (p *Printer) Header(format string, a ...any) {
	p.cyan.Fprintf(p.out, "%s\n", fmt.Sprintf(format, a...))
}

// Warning prints a line in yellow with a warning prefix.
func (p *Printer) Warning(format string, a ...any) {
	p.yellow.Fprintf(p.out, "⚠️  %s\n", strings.TrimSuffix(fmt.Sprintf(format, a...), "\n"))
}

// Error prints a titled error with an explanation and suggestions to the
// error writer and returns an error carrying the title.
func (p *Printer) Error(title, explanation string, suggestions []string) error {
	p.red.Fprintf(p.errOut, "%s\n\n", title)
	if explanation != "" {
		fmt.Fprintf(p.errOut, "%s\n", explanation)
	}

	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(p.errOut, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(p.errOut, "\nTry:\n")
		for i, s := range suggestions {
			fmt.Fprintf(p.errOut, "  %d. %s\n", i+1, s)
		}
	}
	return fmt.Errorf("%s", title)
}
