package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/highstreeto/tracky/internal/tracker"
)

func ToCSV(projects []*tracker.Project, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	// Header
	if err := w.Write([]string{"ID", "Project", "Activity", "State", "Start", "End", "Duration (s)", "Duration"}); err != nil {
		return err
	}

	for _, r := range rows(projects) {
		record := []string{
			r.task.ID(),
			r.project,
			r.task.Activity(),
			r.task.State().String(),
			r.task.Start().Local().Format(time.RFC3339),
			r.endString(),
			fmt.Sprintf("%d", r.seconds()),
			formatDuration(r.seconds()),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv file: %w", err)
	}
	return f.Close()
}
