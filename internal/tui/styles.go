package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/highstreeto/tracky/internal/tracker"
)

// palette mirrors the command line colours for task states.
var palette = struct {
	accent, running, finished, failure lipgloss.Color
	text, dim, border, clock           lipgloss.Color
}{
	accent:   "#6C63FF",
	running:  "#F39C12",
	finished: "#2ECC71",
	failure:  "#E74C3C",
	text:     "#C0CAF5",
	dim:      "#666666",
	border:   "#414868",
	clock:    "#7AA2F7",
}

// Bar colours, assigned to projects by position.
var projectColors = []lipgloss.Color{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

func projectColor(i int) lipgloss.Color {
	return projectColors[i%len(projectColors)]
}

// projectDot is the coloured marker shown next to a project name.
func projectDot(i int) string {
	return lipgloss.NewStyle().Foreground(projectColor(i)).Render("●")
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(palette.text)
	mutedStyle = lipgloss.NewStyle().Foreground(palette.dim)
	clockStyle = lipgloss.NewStyle().Foreground(palette.clock)
)

func tabStyle(active bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 2)
	if !active {
		return s.Foreground(palette.dim)
	}
	return s.Bold(true).
		Foreground(palette.accent).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(palette.accent)
}

// panel frames a view. The focused panel is the one taking keys.
func panel(focused bool) lipgloss.Style {
	border := palette.border
	if focused {
		border = palette.accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2)
}

func itemStyle(selected bool) lipgloss.Style {
	if selected {
		return lipgloss.NewStyle().Bold(true).Foreground(palette.accent)
	}
	return lipgloss.NewStyle().Foreground(palette.text)
}

func statusStyle(isError bool) lipgloss.Style {
	if isError {
		return lipgloss.NewStyle().Foreground(palette.failure)
	}
	return mutedStyle
}

func stateStyle(s tracker.State) lipgloss.Style {
	if s == tracker.Finished {
		return lipgloss.NewStyle().Foreground(palette.finished)
	}
	return lipgloss.NewStyle().Foreground(palette.running)
}
