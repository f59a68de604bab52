// Package export writes every tracked task to CSV or JSON.
package export

import (
	"fmt"
	"time"

	"github.com/highstreeto/tracky/internal/tracker"
)

// row is one task flattened together with its project.
type row struct {
	project string
	task    tracker.Task
}

func rows(projects []*tracker.Project) []row {
	var out []row
	for _, p := range projects {
		for _, t := range p.AllTasks() {
			out = append(out, row{project: p.Name(), task: t})
		}
	}
	return out
}

func (r row) endString() string {
	end, ok := r.task.End()
	if !ok {
		return ""
	}
	return end.Local().Format(time.RFC3339)
}

func (r row) seconds() int64 {
	return int64(r.task.Duration() / time.Second)
}

// FormatDuration renders d as hh:mm:ss, truncated to whole seconds.
func FormatDuration(d time.Duration) string {
	return formatDuration(int64(d / time.Second))
}

func formatDuration(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
