// Package repl parses tracky commands and runs the read-eval-print loop.
package repl

import (
	"errors"
	"fmt"
	"io"

	"github.com/highstreeto/tracky/internal/export"
	"github.com/highstreeto/tracky/internal/tracker"
)

// Outcome tells the loop whether to keep reading input.
type Outcome int

const (
	Continue Outcome = iota
	Quit
)

func (o Outcome) String() string {
	if o == Quit {
		return "quit"
	}
	return "continue"
}

// Saver persists the tracker. *store.Store satisfies it.
type Saver interface {
	Save(t *tracker.Tracker) error
	Path() string
}

// Viewer shows the tracker until the user closes it.
type Viewer interface {
	Show(t *tracker.Tracker) error
}

var (
	ErrNoSaver = errors.New("Saving is not configured!")
	ErrNoBoard = errors.New("Board is not available!")
	ErrNoTask  = errors.New("No tasks to finish!")
)

// Dispatcher applies commands to a tracker and writes their output.
type Dispatcher struct {
	tracker *tracker.Tracker
	out     io.Writer
	styles  Styles
	saver   Saver
	viewer  Viewer
	width   int
}

type Option func(*Dispatcher)

func WithSaver(s Saver) Option {
	return func(d *Dispatcher) { d.saver = s }
}

func WithViewer(v Viewer) Option {
	return func(d *Dispatcher) { d.viewer = v }
}

func WithStyles(s Styles) Option {
	return func(d *Dispatcher) { d.styles = s }
}

// WithWidth sets the column the help text wraps at.
func WithWidth(w int) Option {
	return func(d *Dispatcher) { d.width = w }
}

func New(t *tracker.Tracker, out io.Writer, opts ...Option) *Dispatcher {
	d := &Dispatcher{tracker: t, out: out, width: defaultWidth}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Tracker() *tracker.Tracker { return d.tracker }

// Handle parses and applies one input line. A non-nil error carries the
// message to show the user; the tracker is unchanged in that case.
func (d *Dispatcher) Handle(line string) (Outcome, error) {
	cmd, err := Parse(line)
	if err != nil {
		return Continue, err
	}

	switch c := cmd.(type) {
	case AddProject:
		return Continue, d.addProject(c)
	case AddTask:
		return Continue, d.addTask(c)
	case List:
		return Continue, d.list(c)
	case Finish:
		return Continue, d.finish(c)
	case Report:
		d.report()
		return Continue, nil
	case Save:
		return Continue, d.save()
	case Export:
		return Continue, d.export(c)
	case Board:
		return Continue, d.board()
	case Help:
		writeHelp(d.out, d.width, d.styles.Heading.Render)
		return Continue, nil
	case QuitCommand:
		return Quit, nil
	}
	return Continue, fmt.Errorf("unhandled command %T", cmd)
}

func (d *Dispatcher) project(name string) (int, error) {
	i, ok := d.tracker.FindProject(name)
	if !ok {
		return 0, fmt.Errorf("Project %s not known!", name)
	}
	return i, nil
}

func (d *Dispatcher) addProject(c AddProject) error {
	if err := d.tracker.AddProject(tracker.NewProject(c.Name)); err != nil {
		if errors.Is(err, tracker.ErrDuplicateProject) {
			return fmt.Errorf("Project %s already exists!", c.Name)
		}
		return err
	}
	d.printf("Added new project %s\n", d.styles.Name.Render(c.Name))
	return nil
}

func (d *Dispatcher) addTask(c AddTask) error {
	i, err := d.project(c.Project)
	if err != nil {
		return err
	}
	task := d.tracker.StartTask(i, c.Activity)
	d.printf("Started task %s\n", d.formatTask(task))
	return nil
}

func (d *Dispatcher) list(c List) error {
	if c.Project == "" {
		projects := d.tracker.Projects()
		if len(projects) == 0 {
			d.printf("No projects found - use %s to change this!\n", d.styles.Name.Render("add"))
			return nil
		}
		d.printf("%s\n", d.styles.Heading.Render("All projects:"))
		for _, p := range projects {
			d.printf(" - %s\n", p.Name())
		}
		return nil
	}

	i, err := d.project(c.Project)
	if err != nil {
		return err
	}
	p := d.tracker.Project(i)
	d.printf("%s\n", d.styles.Heading.Render("Tasks for project "+p.Name()))
	for _, t := range p.AllTasks() {
		d.printf(" - %s\n", d.formatTask(t))
	}
	return nil
}

func (d *Dispatcher) finish(c Finish) error {
	i, err := d.project(c.Project)
	if err != nil {
		return err
	}
	var (
		task tracker.Task
		ok   bool
	)
	if c.Activity == "" {
		task, ok = d.tracker.FinishLastTask(i)
	} else {
		task, ok = d.tracker.FinishTask(i, c.Activity)
	}
	if !ok {
		return ErrNoTask
	}
	d.printf("Finished %s\n", d.formatTask(task))
	return nil
}

func (d *Dispatcher) report() {
	projects := d.tracker.Projects()
	if len(projects) == 0 {
		d.printf("No projects found - use %s to change this!\n", d.styles.Name.Render("add"))
		return
	}
	d.printf("%s\n", d.styles.Heading.Render("Time per project:"))
	for _, p := range projects {
		counts := fmt.Sprintf("(%d finished, %d running)", len(p.Finished()), len(p.Started()))
		d.printf(" - %s %s %s\n", p.Name(), export.FormatDuration(p.TotalDuration()), d.styles.Muted.Render(counts))
	}
}

func (d *Dispatcher) save() error {
	if d.saver == nil {
		return ErrNoSaver
	}
	if err := d.saver.Save(d.tracker); err != nil {
		return fmt.Errorf("Could not save to %s: %w", d.saver.Path(), err)
	}
	d.printf("Saved to %s\n", d.saver.Path())
	return nil
}

func (d *Dispatcher) export(c Export) error {
	write := export.ToCSV
	if c.Format == FormatJSON {
		write = export.ToJSON
	}
	if err := write(d.tracker.Projects(), c.Path); err != nil {
		return fmt.Errorf("Could not export: %w", err)
	}
	d.printf("Exported %d tasks to %s\n", d.tracker.TaskCount(), c.Path)
	return nil
}

func (d *Dispatcher) board() error {
	if d.viewer == nil {
		return ErrNoBoard
	}
	if err := d.viewer.Show(d.tracker); err != nil {
		return fmt.Errorf("Could not open board: %w", err)
	}
	return nil
}

// formatTask renders a task like Task.String with the activity coloured
// by state.
func (d *Dispatcher) formatTask(t tracker.Task) string {
	if t.State() == tracker.Finished {
		return fmt.Sprintf("%s ⚡ took %ds", d.styles.Finished.Render(t.Activity()), int64(t.Duration().Seconds()))
	}
	return fmt.Sprintf("%s ☕", d.styles.Running.Render(t.Activity()))
}

func (d *Dispatcher) printf(format string, args ...any) {
	fmt.Fprintf(d.out, format, args...)
}
