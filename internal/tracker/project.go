package tracker

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Project is a named container of started and finished tasks.
type Project struct {
	id       string
	name     string
	started  []Task
	finished []Task
}

func NewProject(name string) *Project {
	return &Project{id: uuid.NewString(), name: name}
}

func (p *Project) ID() string   { return p.id }
func (p *Project) Name() string { return p.name }

// Started returns the running tasks in start order.
func (p *Project) Started() []Task { return slices.Clone(p.started) }

// Finished returns the finished tasks in finish order.
func (p *Project) Finished() []Task { return slices.Clone(p.finished) }

// AllTasks lists running tasks first, then finished ones.
func (p *Project) AllTasks() []Task {
	all := make([]Task, 0, len(p.started)+len(p.finished))
	all = append(all, p.started...)
	return append(all, p.finished...)
}

// TotalDuration sums the durations of all finished tasks.
func (p *Project) TotalDuration() time.Duration {
	var total time.Duration
	for _, t := range p.finished {
		total += t.duration
	}
	return total
}

func (p *Project) StartTask(lc Lifecycle, activity string) Task {
	t := lc.Start(activity)
	p.started = append(p.started, t)
	return t
}

// FinishTask finishes the first running task with exactly this activity,
// compared after NormalizeActivity.
func (p *Project) FinishTask(lc Lifecycle, activity string) (Task, bool) {
	activity = NormalizeActivity(activity)
	idx := slices.IndexFunc(p.started, func(t Task) bool {
		return t.activity == activity
	})
	if idx < 0 {
		return Task{}, false
	}
	return p.finishAt(lc, idx), true
}

// FinishLastTask finishes the most recently started task.
func (p *Project) FinishLastTask(lc Lifecycle) (Task, bool) {
	if len(p.started) == 0 {
		return Task{}, false
	}
	return p.finishAt(lc, len(p.started)-1), true
}

// FinishTaskByID finishes the running task with the given ID.
func (p *Project) FinishTaskByID(lc Lifecycle, id string) (Task, bool) {
	idx := slices.IndexFunc(p.started, func(t Task) bool {
		return t.id == id
	})
	if idx < 0 {
		return Task{}, false
	}
	return p.finishAt(lc, idx), true
}

func (p *Project) finishAt(lc Lifecycle, idx int) Task {
	t := lc.Finish(p.started[idx])
	p.started = slices.Delete(p.started, idx, idx+1)
	p.finished = append(p.finished, t)
	return t
}
