// Package tracker models projects and their timed tasks.
package tracker

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrEmptyName        = errors.New("empty name")
	ErrDuplicateProject = errors.New("duplicate project")
)

// Tracker owns all projects in creation order.
type Tracker struct {
	projects  []*Project
	lifecycle Lifecycle
}

type Option func(*Tracker)

// WithClock replaces the wall clock used for task timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.lifecycle.Now = now
		}
	}
}

// WithMinDuration sets the floor for finished task durations.
// Non-positive values keep the default.
func WithMinDuration(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.lifecycle.MinDuration = d
		}
	}
}

func New(opts ...Option) *Tracker {
	t := &Tracker{lifecycle: DefaultLifecycle()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Lifecycle() Lifecycle { return t.lifecycle }

func (t *Tracker) Now() time.Time { return t.lifecycle.now() }

func (t *Tracker) Len() int { return len(t.projects) }

func (t *Tracker) Projects() []*Project { return slices.Clone(t.projects) }

// Project returns the project at index i as reported by FindProject.
func (t *Tracker) Project(i int) *Project { return t.projects[i] }

// FindProject returns the index of the project with exactly this name.
func (t *Tracker) FindProject(name string) (int, bool) {
	idx := slices.IndexFunc(t.projects, func(p *Project) bool {
		return p.name == name
	})
	return idx, idx >= 0
}

// AddProject appends p unless its name is empty or already taken.
func (t *Tracker) AddProject(p *Project) error {
	if p.name == "" {
		return fmt.Errorf("add project: %w", ErrEmptyName)
	}
	if _, ok := t.FindProject(p.name); ok {
		return fmt.Errorf("add project %q: %w", p.name, ErrDuplicateProject)
	}
	t.projects = append(t.projects, p)
	return nil
}

func (t *Tracker) StartTask(i int, activity string) Task {
	return t.projects[i].StartTask(t.lifecycle, activity)
}

func (t *Tracker) FinishTask(i int, activity string) (Task, bool) {
	return t.projects[i].FinishTask(t.lifecycle, activity)
}

func (t *Tracker) FinishLastTask(i int) (Task, bool) {
	return t.projects[i].FinishLastTask(t.lifecycle)
}

func (t *Tracker) FinishTaskByID(i int, id string) (Task, bool) {
	return t.projects[i].FinishTaskByID(t.lifecycle, id)
}

// Running counts started tasks across all projects.
func (t *Tracker) Running() int {
	n := 0
	for _, p := range t.projects {
		n += len(p.started)
	}
	return n
}

// TaskCount counts tasks in both states across all projects.
func (t *Tracker) TaskCount() int {
	n := 0
	for _, p := range t.projects {
		n += len(p.started) + len(p.finished)
	}
	return n
}
