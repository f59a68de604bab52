package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/highstreeto/tracky/internal/export"
	"github.com/highstreeto/tracky/internal/tracker"
)

// projectHours is the report row for one project.
type projectHours struct {
	index    int
	name     string
	finished time.Duration
	running  time.Duration
	tasks    int
}

type reportsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	rows  []projectHours
	chart barchart.Model
}

func newReportsModel(t *tracker.Tracker) reportsModel {
	return reportsModel{
		tracker: t,
		chart:   barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

// collect sums finished durations and the live elapsed time of running
// tasks per project.
func collect(t *tracker.Tracker) []projectHours {
	now := t.Now()
	var rows []projectHours
	for i, p := range t.Projects() {
		row := projectHours{index: i, name: p.Name(), finished: p.TotalDuration()}
		for _, task := range p.Started() {
			row.running += task.Elapsed(now)
		}
		row.tasks = len(p.Started()) + len(p.Finished())
		rows = append(rows, row)
	}
	return rows
}

// refresh recomputes the rows and redraws the chart.
func (r *reportsModel) refresh() {
	r.rows = collect(r.tracker)
	r.buildChart()
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, row := range r.rows {
		values := []barchart.BarValue{
			{
				Name:  row.name,
				Value: row.finished.Hours(),
				Style: lipgloss.NewStyle().Foreground(projectColor(row.index)),
			},
		}
		if row.running > 0 {
			values = append(values, barchart.BarValue{
				Name:  row.name + " (running)",
				Value: row.running.Hours(),
				Style: stateStyle(tracker.Started),
			})
		}
		bars = append(bars, barchart.BarData{
			Label:  row.name,
			Values: values,
		})
	}

	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  "",
			Values: []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(palette.border)}},
		}}
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	var total time.Duration
	for _, row := range r.rows {
		total += row.finished
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Hours per project"), "  ", mutedStyle.Render("total "+formatHours(total)),
	)

	return panel(false).Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderSummaryTable(w),
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.rows) == 0 {
		return mutedStyle.Render("  No projects yet")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-20s %10s %10s %8s", "Project", "Finished", "Running", "Tasks"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 52)))))

	for _, row := range r.rows {
		colorDot := projectDot(row.index)
		rows = append(rows, fmt.Sprintf("  %s %-18s %10s %10s %8d",
			colorDot, row.name, export.FormatDuration(row.finished), export.FormatDuration(row.running), row.tasks,
		))
	}

	return strings.Join(rows, "\n")
}
