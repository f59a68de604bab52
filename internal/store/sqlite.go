package store

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/highstreeto/tracky/internal/tracker"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// sqliteBackend keeps the snapshot in a SQLite database. Every save
// rewrites all rows inside one transaction.
type sqliteBackend struct{}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	var version int
	err := db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := migrateV1(db); err != nil {
			return err
		}
	}

	_, err = db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func migrateV1(db *sql.DB) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS projects (
		id        TEXT PRIMARY KEY,
		position  INTEGER NOT NULL,
		name      TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		activity    TEXT NOT NULL,
		start_time  TEXT NOT NULL,
		end_time    TEXT,
		duration    INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id, position);
	`
	_, err := db.Exec(ddl)
	return err
}

func (sqliteBackend) read(path string) (tracker.Snapshot, error) {
	var snap tracker.Snapshot
	// sql.Open would happily create a fresh database.
	if _, err := os.Stat(path); err != nil {
		return snap, fmt.Errorf("read snapshot: %w", err)
	}

	db, err := openDB(path)
	if err != nil {
		return snap, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id, name FROM projects ORDER BY position`)
	if err != nil {
		return snap, fmt.Errorf("list projects: %w", err)
	}
	index := make(map[string]int)
	for rows.Next() {
		var p tracker.ProjectSnapshot
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			rows.Close()
			return snap, err
		}
		index[p.ID] = len(snap.Projects)
		snap.Projects = append(snap.Projects, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("list projects: %w", err)
	}

	rows, err = db.Query(
		`SELECT id, project_id, activity, start_time, end_time, duration
		 FROM tasks ORDER BY project_id, position`,
	)
	if err != nil {
		return snap, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t         tracker.TaskSnapshot
			projectID string
			startTime string
			endTime   sql.NullString
			duration  sql.NullInt64
		)
		if err := rows.Scan(&t.ID, &projectID, &t.Activity, &startTime, &endTime, &duration); err != nil {
			return snap, err
		}
		i, ok := index[projectID]
		if !ok {
			return snap, fmt.Errorf("task %s references unknown project %s", t.ID, projectID)
		}
		if t.Start, err = time.Parse(time.RFC3339Nano, startTime); err != nil {
			return snap, fmt.Errorf("parse start of task %s: %w", t.ID, err)
		}
		if !endTime.Valid {
			snap.Projects[i].Started = append(snap.Projects[i].Started, t)
			continue
		}
		end, err := time.Parse(time.RFC3339Nano, endTime.String)
		if err != nil {
			return snap, fmt.Errorf("parse end of task %s: %w", t.ID, err)
		}
		t.End = &end
		t.Duration = duration.Int64
		snap.Projects[i].Finished = append(snap.Projects[i].Finished, t)
	}
	return snap, rows.Err()
}

func (sqliteBackend) write(path string, snap tracker.Snapshot) error {
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM projects`); err != nil {
		return fmt.Errorf("clear projects: %w", err)
	}

	for i, p := range snap.Projects {
		if _, err := tx.Exec(
			`INSERT INTO projects (id, position, name) VALUES (?, ?, ?)`,
			p.ID, i, p.Name,
		); err != nil {
			return fmt.Errorf("insert project %q: %w", p.Name, err)
		}
		// Started and finished tasks share one position sequence; the
		// end_time column tells them apart on read.
		pos := 0
		for _, group := range [][]tracker.TaskSnapshot{p.Started, p.Finished} {
			for _, t := range group {
				var endTime, duration any
				if t.End != nil {
					endTime = t.End.Format(time.RFC3339Nano)
					duration = t.Duration
				}
				if _, err := tx.Exec(
					`INSERT INTO tasks (id, project_id, position, activity, start_time, end_time, duration)
					 VALUES (?, ?, ?, ?, ?, ?, ?)`,
					t.ID, p.ID, pos, t.Activity, t.Start.Format(time.RFC3339Nano), endTime, duration,
				); err != nil {
					return fmt.Errorf("insert task %q: %w", t.Activity, err)
				}
				pos++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}
