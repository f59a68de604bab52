package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/highstreeto/tracky/internal/tracker"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Tasks      []jsonEntry `json:"tasks"`
}

type jsonEntry struct {
	ID          string `json:"id"`
	Project     string `json:"project"`
	Activity    string `json:"activity"`
	State       string `json:"state"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
}

func ToJSON(projects []*tracker.Project, path string) error {
	all := rows(projects)
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(all),
	}

	for _, r := range all {
		export.Tasks = append(export.Tasks, jsonEntry{
			ID:          r.task.ID(),
			Project:     r.project,
			Activity:    r.task.Activity(),
			State:       r.task.State().String(),
			StartTime:   r.task.Start().Local().Format(time.RFC3339),
			EndTime:     r.endString(),
			DurationSec: r.seconds(),
			Duration:    formatDuration(r.seconds()),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
