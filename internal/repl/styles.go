package repl

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette
var (
	colorError   = lipgloss.Color("#E74C3C")
	colorWarning = lipgloss.Color("#F39C12")
	colorSuccess = lipgloss.Color("#2ECC71")
	colorHeading = lipgloss.Color("#7AA2F7")
	colorMuted   = lipgloss.Color("#666666")
)

// Styles holds the lipgloss styles used for loop output. The zero value
// renders plain text.
type Styles struct {
	ErrorPrefix lipgloss.Style
	Heading     lipgloss.Style
	Name        lipgloss.Style
	Running     lipgloss.Style
	Finished    lipgloss.Style
	Muted       lipgloss.Style
}

// NewStyles builds styles bound to r so colour support is detected for
// the writer r was created for.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		ErrorPrefix: r.NewStyle().Bold(true).Foreground(colorError),
		Heading:     r.NewStyle().Bold(true).Foreground(colorHeading),
		Name:        r.NewStyle().Bold(true),
		Running:     r.NewStyle().Foreground(colorWarning),
		Finished:    r.NewStyle().Foreground(colorSuccess),
		Muted:       r.NewStyle().Foreground(colorMuted),
	}
}

// Renderer returns a lipgloss renderer for w. color is "always", "never",
// or anything else for detection.
func Renderer(w io.Writer, color string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch color {
	case "always":
		r.SetColorProfile(termenv.ANSI256)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}
