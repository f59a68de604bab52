package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/wordwrap"
)

const (
	defaultWidth = 80
	usageWidth   = 33
	minDescWidth = 20
)

type helpEntry struct {
	usage string
	desc  string
}

var helpEntries = []helpEntry{
	{"  add", "Add ... to track"},
	{"    project <name>", "Add a new project"},
	{"    task <project> <activity>", "Add a new task starting now ☕"},
	{"  finish <project> [activity]", "Finish activity of project or last activity"},
	{"  list [project]", "List all projects or the tasks of one project"},
	{"  report", "Show finished time per project"},
	{"  save", "Save the tracker without quitting"},
	{"  export <csv|json> <path>", "Write every task to a CSV or JSON file"},
	{"  board", "Open the full-screen board"},
	{"  help", "Displays this help text"},
	{"  quit / exit", "Quit and save Tracky"},
}

// writeHelp prints the command summary. Descriptions wrap at width and
// continue under the description column.
func writeHelp(w io.Writer, width int, heading func(...string) string) {
	if width <= 0 {
		width = defaultWidth
	}
	descWidth := max(width-usageWidth, minDescWidth)

	fmt.Fprintln(w, heading("Available commands:"))
	for _, e := range helpEntries {
		desc := wordwrap.String(e.desc, descWidth)
		first, more, _ := strings.Cut(desc, "\n")
		fmt.Fprintln(w, padding.String(e.usage, usageWidth)+first)
		if more != "" {
			fmt.Fprintln(w, indent.String(more, usageWidth))
		}
	}
}
