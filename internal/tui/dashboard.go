package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/highstreeto/tracky/internal/export"
	"github.com/highstreeto/tracky/internal/tracker"
)

// runningTask is a started task together with its project index.
type runningTask struct {
	project int
	name    string
	task    tracker.Task
}

type dashboardModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	cursor int
	now    time.Time
}

func newDashboardModel(t *tracker.Tracker) dashboardModel {
	return dashboardModel{
		tracker: t,
		now:     t.Now(),
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) running() []runningTask {
	var out []runningTask
	for i, p := range d.tracker.Projects() {
		for _, t := range p.Started() {
			out = append(out, runningTask{project: i, name: p.Name(), task: t})
		}
	}
	return out
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		d.now = d.tracker.Now()
		return d, nil

	case tea.KeyMsg:
		running := d.running()
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(running)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.Finish):
			if len(running) == 0 {
				return d, statusCmd("No tasks to finish!", true)
			}
			r := running[clampCursor(d.cursor, len(running))]
			cmd := finishTask(d.tracker, r.project, r.task)
			d.cursor = clampCursor(d.cursor, len(running)-1)
			return d, cmd
		}
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderRunningPanel(contentWidth),
		d.renderSummaryPanel(contentWidth),
	)
}

func (d dashboardModel) renderRunningPanel(w int) string {
	running := d.running()
	title := titleStyle.Render(fmt.Sprintf("Running (%d)", len(running)))

	if len(running) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("■  Nothing running. Press 2, pick a project and press s to start a task."),
		)
		return panel(false).Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title, "")
	cursor := clampCursor(d.cursor, len(running))
	for i, r := range running {
		marker := "  "
		style := itemStyle(false)
		if i == cursor {
			marker = "> "
			style = itemStyle(true)
		}
		dot := projectDot(r.project)
		rows = append(rows, fmt.Sprintf("%s%s %-16s %s",
			style.Render(marker), dot, r.name, renderTask(r.task, d.now),
		))
	}
	rows = append(rows, "", mutedStyle.Render("  x: finish selected"))

	return panel(true).Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderSummaryPanel(w int) string {
	var total time.Duration
	projects := d.tracker.Projects()
	for _, p := range projects {
		total += p.TotalDuration()
	}
	header := fmt.Sprintf("%s  %s", titleStyle.Render("Tracked"), clockStyle.Render(export.FormatDuration(total)))

	if len(projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("No projects yet"),
		)
		return panel(false).Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, header)
	for i, p := range projects {
		colorDot := projectDot(i)
		row := fmt.Sprintf("  %s %-20s %s  (%d finished, %d running)",
			colorDot,
			p.Name(),
			export.FormatDuration(p.TotalDuration()),
			len(p.Finished()),
			len(p.Started()),
		)
		rows = append(rows, row)
	}

	return panel(false).Width(w).Render(strings.Join(rows, "\n"))
}
