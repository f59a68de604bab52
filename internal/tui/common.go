package tui

import (
	"fmt"
	"time"
)

// viewState indexes viewNames and keys.Views.
type viewState int

const (
	viewDashboard viewState = iota
	viewProjects
	viewReports
)

var viewNames = []string{"Dashboard", "Projects", "Report"}

// statusMsg sets the footer status line.
type statusMsg struct {
	text    string
	isError bool
}

// tickMsg drives live elapsed times, once per second.
type tickMsg time.Time

// exportDoneMsg reports a finished export from the picker.
type exportDoneMsg struct {
	path  string
	count int
}

// formatHours renders d as decimal hours, e.g. "1.5h".
func formatHours(d time.Duration) string {
	return fmt.Sprintf("%.1fh", d.Hours())
}

// clampCursor keeps a list cursor inside [0, n).
func clampCursor(cursor, n int) int {
	return max(0, min(cursor, n-1))
}
