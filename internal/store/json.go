package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/highstreeto/tracky/internal/tracker"
)

type jsonBackend struct{}

func (jsonBackend) read(path string) (tracker.Snapshot, error) {
	var snap tracker.Snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return snap, nil
}

// write goes through a temp file in the target directory so the snapshot
// is replaced wholesale or not at all.
func (jsonBackend) write(path string, snap tracker.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	name := tmp.Name()
	_, err = tmp.Write(data)
	if err1 := tmp.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("write temp snapshot: %w", err)
	}

	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}
