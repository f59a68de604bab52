// Package store loads and saves tracker snapshots.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/highstreeto/tracky/internal/tracker"
)

const defaultFileName = "tracky.json"

// backend reads and writes a whole snapshot at once.
type backend interface {
	read(path string) (tracker.Snapshot, error)
	write(path string, snap tracker.Snapshot) error
}

// Store persists a tracker to a single file. Files ending in .db, .sqlite
// or .sqlite3 use SQLite, everything else JSON.
type Store struct {
	path    string
	backend backend
}

func New(path string) *Store {
	return &Store{path: path, backend: backendFor(path)}
}

func backendFor(path string) backend {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return sqliteBackend{}
	}
	return jsonBackend{}
}

func (s *Store) Path() string { return s.path }

// Load reads the snapshot file. A missing file yields an error wrapping
// fs.ErrNotExist; callers usually fall back to tracker.New.
func (s *Store) Load(opts ...tracker.Option) (*tracker.Tracker, error) {
	snap, err := s.backend.read(s.path)
	if err != nil {
		return nil, err
	}
	t, err := tracker.FromSnapshot(snap, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	return t, nil
}

// Save replaces the snapshot file with the tracker's current state.
func (s *Store) Save(t *tracker.Tracker) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	return s.backend.write(s.path, t.Snapshot())
}

func Load(path string, opts ...tracker.Option) (*tracker.Tracker, error) {
	return New(path).Load(opts...)
}

func Save(t *tracker.Tracker, path string) error {
	return New(path).Save(t)
}

// DefaultPath returns ~/tracky.json, or tracky.json in the working
// directory when there is no home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return defaultFileName
	}
	return filepath.Join(home, defaultFileName)
}
