// Package tui implements the full-screen tracky board.
package tui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/highstreeto/tracky/internal/tracker"
)

// Board runs the App as a blocking full-screen program.
type Board struct {
	in        io.Reader
	out       io.Writer
	exportDir string
}

type Option func(*Board)

func WithInput(r io.Reader) Option {
	return func(b *Board) { b.in = r }
}

func WithOutput(w io.Writer) Option {
	return func(b *Board) { b.out = w }
}

// WithExportDir sets where the board's export picker writes files.
func WithExportDir(dir string) Option {
	return func(b *Board) { b.exportDir = dir }
}

func New(opts ...Option) *Board {
	b := &Board{in: os.Stdin, out: os.Stdout, exportDir: "."}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Show blocks until the user leaves the board. Changes are applied to t
// directly.
func (b *Board) Show(t *tracker.Tracker) error {
	p := tea.NewProgram(
		NewApp(t, b.exportDir),
		tea.WithAltScreen(),
		tea.WithInput(b.in),
		tea.WithOutput(b.out),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}
