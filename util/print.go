package util

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"mui-v7-lint/analysis"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Printer writes diagnostics with the offending source line and a caret
// underline.
type Printer struct {
	w io.Writer

	location *color.Color
	errColor *color.Color
	warn     *color.Color
	note     *color.Color
	gutter   *color.Color
	caret    *color.Color
}

func NewPrinter(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:        w,
		location: color.New(color.Bold),
		errColor: color.New(color.FgRed, color.Bold),
		warn:     color.New(color.FgYellow, color.Bold),
		note:     color.New(color.FgCyan),
		gutter:   color.New(color.FgBlue),
		caret:    color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.location, p.errColor, p.warn, p.note, p.gutter, p.caret} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) Diagnostic(file string, body []byte, d analysis.Diagnostic, sev analysis.Severity) error {
	label := p.warn.Sprint("warning")
	if sev == analysis.SeverityError {
		label = p.errColor.Sprint("error")
	}
	row := int(d.Range.StartPoint.Row) + 1
	col := int(d.Range.StartPoint.Column) + 1

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s [%s]\n", p.location.Sprintf("%s:%d:%d", file, row, col), label, d.Message, d.Key)

	line, start := lineAt(body, int(d.Range.StartByte))
	if line != nil {
		num := fmt.Sprint(row)
		pad := strings.Repeat(" ", len(num))
		fmt.Fprintf(&b, "%s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), line)

		from := min(int(d.Range.StartByte)-start, len(line))
		to := min(max(int(d.Range.EndByte)-start, from), len(line))
		fmt.Fprintf(&b, "%s %s %s%s\n", pad, p.gutter.Sprint("|"), indent(line[:from]), p.caret.Sprint(underline(line[from:to])))
	}

	switch {
	case d.Withheld != analysis.WithheldNone:
		fmt.Fprintf(&b, "  %s not fixed automatically: %s\n", p.note.Sprint("note:"), d.Withheld)
	case d.HasFix():
		fmt.Fprintf(&b, "  %s fixable with `mui-lint fix`\n", p.note.Sprint("note:"))
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *Printer) Summary(files, errs, warnings, fixed int) error {
	parts := []string{fmt.Sprintf("%d files", files)}
	if errs > 0 {
		parts = append(parts, p.errColor.Sprintf("%d errors", errs))
	} else {
		parts = append(parts, "0 errors")
	}
	if warnings > 0 {
		parts = append(parts, p.warn.Sprintf("%d warnings", warnings))
	} else {
		parts = append(parts, "0 warnings")
	}
	if fixed > 0 {
		parts = append(parts, p.caret.Sprintf("%d fixed", fixed))
	}
	_, err := fmt.Fprintln(p.w, strings.Join(parts, ", "))
	return err
}

// lineAt returns the line of body holding offset, without its newline, and
// the offset the line starts at.
func lineAt(body []byte, offset int) ([]byte, int) {
	if offset < 0 || offset > len(body) {
		return nil, 0
	}
	start := bytes.LastIndexByte(body[:offset], '\n') + 1
	end := bytes.IndexByte(body[offset:], '\n')
	if end < 0 {
		end = len(body)
	} else {
		end += offset
	}
	return bytes.TrimRight(body[start:end], "\r"), start
}

// indent blanks out prefix, keeping tabs so the caret lines up with the
// printed source.
func indent(prefix []byte) string {
	var b strings.Builder
	for _, r := range string(prefix) {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func underline(text []byte) string {
	return strings.Repeat("^", max(runewidth.StringWidth(string(text)), 1))
}
