package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/highstreeto/tracky/internal/export"
	"github.com/highstreeto/tracky/internal/tracker"
)

// App is the root Bubble Tea model of the board.
type App struct {
	tracker   *tracker.Tracker
	exportDir string
	width     int
	height    int

	activeView viewState
	showHelp   bool
	// picker is non-nil while the export format picker is open.
	picker *exportPicker

	dashboard dashboardModel
	projects  projectsModel
	reports   reportsModel

	help    help.Model
	status  string
	isError bool
}

// NewApp builds the board for t. Exports from the board are written to
// exportDir.
func NewApp(t *tracker.Tracker, exportDir string) App {
	return App{
		tracker:   t,
		exportDir: exportDir,
		dashboard: newDashboardModel(t),
		projects:  newProjectsModel(t),
		reports:   newReportsModel(t),
		help:      help.New(),
	}
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.resize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		switch {
		case a.picker != nil:
			return a.updateExportPicker(msg)
		case a.isFormActive():
			return a.updateActiveView(msg)
		}

		for v, b := range keys.Views {
			if key.Matches(msg, b) {
				return a.switchTo(viewState(v)), nil
			}
		}
		switch {
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames))), nil
		case key.Matches(msg, keys.Export):
			a.picker = &exportPicker{}
			return a, nil
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		}

	case tickMsg:
		// Always route ticks to the dashboard so elapsed times stay live.
		a.dashboard, _ = a.dashboard.update(msg)
		if a.activeView == viewReports {
			a.reports.refresh()
		}
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.isError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = fmt.Sprintf("Exported %d tasks to %s", msg.count, msg.path)
		a.isError = false
		a.picker = nil
		return a, nil
	}

	return a.updateActiveView(msg)
}

// resize lays the views out below the header and above the footer, which
// take two lines each.
func (a App) resize(width, height int) App {
	a.width, a.height = width, height
	a.help.Width = width
	body := height - 4
	a.dashboard.setSize(width, body)
	a.projects.setSize(width, body)
	a.reports.setSize(width, body)
	a.reports.refresh()
	return a
}

// switchTo activates v. The report is rebuilt on entry so it reflects
// tasks changed in the other views.
func (a App) switchTo(v viewState) App {
	a.activeView = v
	if v == viewReports {
		a.reports.refresh()
	}
	return a
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewProjects && a.projects.formActive
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header, footer := a.renderHeader(), a.renderFooter()
	height := max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)
	body := lipgloss.NewStyle().Width(a.width).Height(height).Render(a.body())
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// body renders the export picker over the active view while it is open.
func (a App) body() string {
	if a.picker != nil {
		return a.renderExportPicker()
	}
	switch a.activeView {
	case viewProjects:
		return a.projects.view()
	case viewReports:
		return a.reports.view()
	}
	return a.dashboard.view()
}

func (a App) renderHeader() string {
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		tabs[i] = tabStyle(viewState(i) == a.activeView).Render(name)
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := itemStyle(true).Render("tracky")
	return lipgloss.NewStyle().Padding(0, 1).Render(a.spread(title, tabRow, 4))
}

// spread places left and right on one line, padding the gap between them
// to the board width minus margin.
func (a App) spread(left, right string, margin int) string {
	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-margin, 1)
	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, strings.Repeat(" ", gap), right)
}

func (a App) renderFooter() string {
	var right strings.Builder
	if n := a.tracker.Running(); n > 0 {
		right.WriteString(stateStyle(tracker.Started).Render(fmt.Sprintf(" ● %d running", n)))
	}
	if a.status != "" {
		right.WriteString(statusStyle(a.isError).Render(" " + a.status))
	}

	left := mutedStyle.Padding(0, 1).Render(a.help.View(keys))
	return a.spread(left, right.String(), 2)
}

// exportPicker tracks the highlighted format while the picker is open.
type exportPicker struct {
	cursor int
}

// exportFormat is one entry of the export picker.
type exportFormat struct {
	label string
	ext   string
	write func([]*tracker.Project, string) error
}

var exportFormats = []exportFormat{
	{label: "CSV", ext: "csv", write: export.ToCSV},
	{label: "JSON", ext: "json", write: export.ToJSON},
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range exportFormats {
		selected := i == a.picker.cursor
		marker := "  "
		if selected {
			marker = "> "
		}
		rows = append(rows, itemStyle(selected).Render(marker+f.label))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export to "+a.exportDir+"  esc: cancel"))

	return panel(true).Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		a.picker = &exportPicker{cursor: clampCursor(a.picker.cursor-1, len(exportFormats))}
	case key.Matches(msg, keys.Down):
		a.picker = &exportPicker{cursor: clampCursor(a.picker.cursor+1, len(exportFormats))}
	case key.Matches(msg, keys.Enter):
		f := exportFormats[a.picker.cursor]
		a.picker = nil
		return a, a.doExport(f)
	case key.Matches(msg, keys.Back):
		a.picker = nil
	}
	return a, nil
}

// doExport writes the export synchronously; the tracker must not be read
// from another goroutine while Update may mutate it.
func (a App) doExport(f exportFormat) tea.Cmd {
	name := fmt.Sprintf("tracky-export-%s.%s", a.tracker.Now().Format(time.DateOnly), f.ext)
	path := filepath.Join(a.exportDir, name)
	if err := f.write(a.tracker.Projects(), path); err != nil {
		return statusCmd("Could not export: "+err.Error(), true)
	}
	count := a.tracker.TaskCount()
	return func() tea.Msg { return exportDoneMsg{path: path, count: count} }
}
