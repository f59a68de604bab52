package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMinDuration is the shortest duration a finished task can have.
const DefaultMinDuration = time.Second

// State is the lifecycle state of a task.
type State int

const (
	Started State = iota
	Finished
)

func (s State) String() string {
	switch s {
	case Started:
		return "started"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Task is a single unit of tracked work. The zero End marks a running task.
type Task struct {
	id       string
	activity string
	start    time.Time
	end      time.Time
	duration time.Duration
}

func (t Task) ID() string              { return t.id }
func (t Task) Activity() string        { return t.activity }
func (t Task) Start() time.Time        { return t.start }
func (t Task) Duration() time.Duration { return t.duration }

// End returns the finish time, or false while the task is running.
func (t Task) End() (time.Time, bool) {
	return t.end, !t.end.IsZero()
}

func (t Task) State() State {
	if t.end.IsZero() {
		return Started
	}
	return Finished
}

// Elapsed returns the recorded duration of a finished task, or the time
// since start of a running one.
func (t Task) Elapsed(now time.Time) time.Duration {
	if t.State() == Finished {
		return t.duration
	}
	if d := now.Sub(t.start); d > 0 {
		return d
	}
	return 0
}

func (t Task) String() string {
	if t.State() == Finished {
		return fmt.Sprintf("%s ⚡ took %ds", t.activity, int64(t.duration/time.Second))
	}
	return fmt.Sprintf("%s ☕", t.activity)
}

// Lifecycle captures timestamps for task transitions.
type Lifecycle struct {
	Now         func() time.Time
	MinDuration time.Duration
}

// DefaultLifecycle uses the wall clock and a one second floor.
func DefaultLifecycle() Lifecycle {
	return Lifecycle{Now: time.Now, MinDuration: DefaultMinDuration}
}

// now never returns the zero time, which State reads as "still running".
func (l Lifecycle) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	if t := l.Now(); !t.IsZero() {
		return t
	}
	return time.Now()
}

func (l Lifecycle) floor() time.Duration {
	if l.MinDuration <= 0 {
		return DefaultMinDuration
	}
	return l.MinDuration
}

// NormalizeActivity trims s and collapses inner whitespace to single
// spaces, matching how the command line splits words.
func NormalizeActivity(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Start creates a running task. The activity is normalized.
func (l Lifecycle) Start(activity string) Task {
	return Task{
		id:       uuid.NewString(),
		activity: NormalizeActivity(activity),
		start:    l.now(),
	}
}

// Finish stops a running task. A finished task is returned unchanged.
func (l Lifecycle) Finish(t Task) Task {
	if t.State() == Finished {
		return t
	}
	end := l.now()
	// Clock skew or a coarse clock can produce zero or negative deltas.
	d := end.Sub(t.start)
	if d < l.floor() {
		d = l.floor()
	}
	t.end = end
	t.duration = d
	return t
}
