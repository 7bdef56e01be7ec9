package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Reporter writes one status line per call to a console stream. It keeps no
// state between calls; write errors are ignored.
type Reporter struct {
	out     io.Writer
	info    lipgloss.Style
	success lipgloss.Style
	fail    lipgloss.Style
}

// NewReporter returns a Reporter writing to w with colors from p. Color is
// dropped when w is not a terminal or p.Disabled is set.
func NewReporter(w io.Writer, p Palette) *Reporter {
	r := lipgloss.NewRenderer(w)
	if p.Disabled {
		r.SetColorProfile(termenv.Ascii)
	}
	return newReporter(w, r, p)
}

func newReporter(w io.Writer, r *lipgloss.Renderer, p Palette) *Reporter {
	return &Reporter{
		out:     w,
		info:    r.NewStyle().Foreground(p.Info).Bold(true),
		success: r.NewStyle().Foreground(p.Success).Bold(true),
		fail:    r.NewStyle().Foreground(p.Error).Bold(true),
	}
}

// Info reports progress, such as a stage starting.
func (r *Reporter) Info(text string) {
	r.line(r.info, "[INFO] "+text)
}

// Success reports a passed stage or sample.
func (r *Reporter) Success(text string) {
	r.line(r.success, "[INFO] "+text)
}

// Error reports a failed stage or sample.
func (r *Reporter) Error(text string) {
	r.line(r.fail, "[ERROR] "+text)
}

// Detail echoes diagnostic text under the previous line, tab-indented.
func (r *Reporter) Detail(text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	fmt.Fprintf(r.out, "\t%s\n", text)
}

// Echo writes captured tool output verbatim.
func (r *Reporter) Echo(text string) {
	if text == "" {
		return
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	fmt.Fprint(r.out, text)
}

func (r *Reporter) line(style lipgloss.Style, text string) {
	fmt.Fprintln(r.out, style.Render(text))
}
