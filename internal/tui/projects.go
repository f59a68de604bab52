package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/highstreeto/tracky/internal/export"
	"github.com/highstreeto/tracky/internal/tracker"
)

type formKind int

const (
	formNone formKind = iota
	formProject
	formTask
)

type projectsModel struct {
	tracker *tracker.Tracker
	width   int
	height  int

	cursor       int
	taskCursor   int
	viewingTasks bool // true = viewing tasks of selected project

	formActive bool
	form       *huh.Form
	formType   formKind

	// Form field pointer (survives value copies)
	formValue *string
}

func newProjectsModel(t *tracker.Tracker) projectsModel {
	value := ""
	return projectsModel{
		tracker:   t,
		formValue: &value,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

// selected returns the index of the highlighted project.
func (p projectsModel) selected() (int, bool) {
	if p.tracker.Len() == 0 {
		return 0, false
	}
	return clampCursor(p.cursor, p.tracker.Len()), true
}

func (p projectsModel) tasks() []tracker.Task {
	i, ok := p.selected()
	if !ok {
		return nil
	}
	return p.tracker.Project(i).AllTasks()
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if p.viewingTasks {
			return p.updateTaskView(msg)
		}
		return p.updateProjectList(msg)
	}
	return p, nil
}

func (p projectsModel) updateProjectList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < p.tracker.Len()-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if p.tracker.Len() > 0 {
			p.viewingTasks = true
			p.taskCursor = 0
		}
	case key.Matches(msg, keys.New):
		return p.showNewProjectForm()
	case key.Matches(msg, keys.Start):
		if p.tracker.Len() > 0 {
			return p.showNewTaskForm()
		}
	}
	return p, nil
}

func (p projectsModel) updateTaskView(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		p.viewingTasks = false
		return p, nil
	case key.Matches(msg, keys.Up):
		if p.taskCursor > 0 {
			p.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.taskCursor < len(p.tasks())-1 {
			p.taskCursor++
		}
	case key.Matches(msg, keys.Start):
		return p.showNewTaskForm()
	case key.Matches(msg, keys.Finish):
		return p, p.finishSelected()
	}
	return p, nil
}

func (p projectsModel) finishSelected() tea.Cmd {
	i, ok := p.selected()
	tasks := p.tasks()
	if !ok || len(tasks) == 0 {
		return nil
	}
	task := tasks[clampCursor(p.taskCursor, len(tasks))]
	return finishTask(p.tracker, i, task)
}

// finishTask stops a running task and reports the result in the status bar.
func finishTask(t *tracker.Tracker, project int, task tracker.Task) tea.Cmd {
	if task.State() == tracker.Finished {
		return statusCmd("Task already finished", true)
	}
	done, ok := t.FinishTaskByID(project, task.ID())
	if !ok {
		return statusCmd("No tasks to finish!", true)
	}
	return statusCmd("Finished "+done.String(), false)
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

func (p projectsModel) showNewProjectForm() (projectsModel, tea.Cmd) {
	*p.formValue = ""
	p.formType = formProject

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project Name").
				Value(p.formValue).
				Validate(validateProjectName(p.tracker)),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showNewTaskForm() (projectsModel, tea.Cmd) {
	*p.formValue = ""
	p.formType = formTask

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Activity").
				Value(p.formValue).
				Validate(validateActivity),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func validateProjectName(t *tracker.Tracker) func(string) error {
	return func(s string) error {
		name := strings.TrimSpace(s)
		switch {
		case name == "":
			return errors.New("project name required")
		case strings.ContainsFunc(name, unicode.IsSpace):
			return errors.New("project names must be a single word")
		}
		if _, ok := t.FindProject(name); ok {
			return fmt.Errorf("project %s already exists", name)
		}
		return nil
	}
}

func validateActivity(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("activity required")
	}
	return nil
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateCompleted:
		return p.submitForm()
	case huh.StateAborted:
		p.formActive = false
		p.form = nil
		return p, nil
	}
	return p, cmd
}

// submitForm applies the value of the completed form to the tracker.
func (p projectsModel) submitForm() (projectsModel, tea.Cmd) {
	p.formActive = false
	p.form = nil
	value := strings.TrimSpace(*p.formValue)

	switch p.formType {
	case formProject:
		if err := validateProjectName(p.tracker)(value); err != nil {
			return p, statusCmd(err.Error(), true)
		}
		if err := p.tracker.AddProject(tracker.NewProject(value)); err != nil {
			return p, statusCmd(err.Error(), true)
		}
		p.cursor = p.tracker.Len() - 1
		return p, statusCmd("Added new project "+value, false)
	case formTask:
		i, ok := p.selected()
		if !ok || validateActivity(value) != nil {
			return p, nil
		}
		task := p.tracker.StartTask(i, tracker.NormalizeActivity(value))
		return p, statusCmd("Started task "+task.String(), false)
	}
	return p, nil
}

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Project")
		if p.formType == formTask {
			name := ""
			if i, ok := p.selected(); ok {
				name = p.tracker.Project(i).Name()
			}
			title = titleStyle.Render("Start Task in " + name)
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panel(false).Width(p.width - 4).Render(content)
	}

	if p.viewingTasks {
		return p.renderTaskView()
	}
	return p.renderProjectList()
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects")

	if p.tracker.Len() == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panel(false).Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	// Table header
	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %8s %8s %10s", "", "Name", "Running", "Finished", "Total"))
	rows = append(rows, header)

	cursor, _ := p.selected()
	for i, proj := range p.tracker.Projects() {
		colorDot := projectDot(i)
		marker := "  "
		style := itemStyle(false)
		if i == cursor {
			marker = "> "
			style = itemStyle(true)
		}
		row := style.Render(fmt.Sprintf("%s%s   %-24s %8d %8d %10s",
			marker, colorDot, proj.Name(),
			len(proj.Started()), len(proj.Finished()),
			export.FormatDuration(proj.TotalDuration()),
		))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new project  s: start task  enter: tasks"))

	return panel(false).Width(w).Render(strings.Join(rows, "\n"))
}

func (p projectsModel) renderTaskView() string {
	w := p.width - 4
	i, _ := p.selected()
	proj := p.tracker.Project(i)
	colorDot := projectDot(i)
	title := titleStyle.Render(fmt.Sprintf("%s %s: Tasks", colorDot, proj.Name()))

	tasks := proj.AllTasks()
	if len(tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks. Press s to start one."),
		)
		return panel(false).Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	now := p.tracker.Now()
	cursor := clampCursor(p.taskCursor, len(tasks))
	for j, task := range tasks {
		marker := "  "
		style := itemStyle(false)
		if j == cursor {
			marker = "> "
			style = itemStyle(true)
		}
		rows = append(rows, style.Render(marker)+renderTask(task, now))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  s: start task  x: finish  esc: back"))

	return panel(false).Width(w).Render(strings.Join(rows, "\n"))
}

// renderTask shows a running task with its live elapsed time and a
// finished one with its recorded duration.
func renderTask(task tracker.Task, now time.Time) string {
	elapsed := export.FormatDuration(task.Elapsed(now))
	name := stateStyle(task.State())
	if task.State() == tracker.Finished {
		return name.Render("⚡ "+task.Activity()) + mutedStyle.Render("  took "+elapsed)
	}
	return name.Render("☕ "+task.Activity()) + clockStyle.Render("  "+elapsed)
}
