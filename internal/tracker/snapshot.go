package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the persisted shape of a tracker.
type Snapshot struct {
	Projects []ProjectSnapshot `json:"projects"`
}

type ProjectSnapshot struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Started  []TaskSnapshot `json:"started"`
	Finished []TaskSnapshot `json:"finished"`
}

// TaskSnapshot stores End and Duration only for finished tasks.
// Duration is in nanoseconds.
type TaskSnapshot struct {
	ID       string     `json:"id"`
	Activity string     `json:"activity"`
	Start    time.Time  `json:"start"`
	End      *time.Time `json:"end,omitempty"`
	Duration int64      `json:"duration_ns,omitempty"`
}

func (t *Tracker) Snapshot() Snapshot {
	snap := Snapshot{Projects: make([]ProjectSnapshot, 0, len(t.projects))}
	for _, p := range t.projects {
		ps := ProjectSnapshot{
			ID:       p.id,
			Name:     p.name,
			Started:  make([]TaskSnapshot, 0, len(p.started)),
			Finished: make([]TaskSnapshot, 0, len(p.finished)),
		}
		for _, task := range p.started {
			ps.Started = append(ps.Started, snapshotTask(task))
		}
		for _, task := range p.finished {
			ps.Finished = append(ps.Finished, snapshotTask(task))
		}
		snap.Projects = append(snap.Projects, ps)
	}
	return snap
}

func snapshotTask(t Task) TaskSnapshot {
	ts := TaskSnapshot{ID: t.id, Activity: t.activity, Start: t.start}
	if end, ok := t.End(); ok {
		ts.End = &end
		ts.Duration = int64(t.duration)
	}
	return ts
}

// FromSnapshot rebuilds a tracker, rejecting snapshots that break the
// tracker's invariants.
func FromSnapshot(snap Snapshot, opts ...Option) (*Tracker, error) {
	t := New(opts...)
	for i, ps := range snap.Projects {
		p := &Project{id: ps.ID, name: ps.Name}
		if p.id == "" {
			p.id = uuid.NewString()
		}
		if err := t.AddProject(p); err != nil {
			return nil, fmt.Errorf("%w: project %d: %w", ErrInvalidSnapshot, i, err)
		}
		for j, ts := range ps.Started {
			task, err := restoreTask(ts, Started)
			if err != nil {
				return nil, fmt.Errorf("%w: project %q started task %d: %w", ErrInvalidSnapshot, p.name, j, err)
			}
			p.started = append(p.started, task)
		}
		for j, ts := range ps.Finished {
			task, err := restoreTask(ts, Finished)
			if err != nil {
				return nil, fmt.Errorf("%w: project %q finished task %d: %w", ErrInvalidSnapshot, p.name, j, err)
			}
			p.finished = append(p.finished, task)
		}
	}
	return t, nil
}

func restoreTask(ts TaskSnapshot, want State) (Task, error) {
	activity := NormalizeActivity(ts.Activity)
	if activity == "" {
		return Task{}, fmt.Errorf("activity: %w", ErrEmptyName)
	}
	if ts.Start.IsZero() {
		return Task{}, errors.New("missing start time")
	}
	task := Task{id: ts.ID, activity: activity, start: ts.Start}
	if task.id == "" {
		task.id = uuid.NewString()
	}
	switch want {
	case Started:
		if ts.End != nil {
			return Task{}, errors.New("running task has an end time")
		}
	case Finished:
		if ts.End == nil || ts.End.IsZero() {
			return Task{}, errors.New("finished task has no end time")
		}
		if ts.Duration <= 0 {
			return Task{}, fmt.Errorf("non-positive duration %d", ts.Duration)
		}
		task.end = *ts.End
		task.duration = time.Duration(ts.Duration)
	}
	return task, nil
}
