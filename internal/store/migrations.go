package store

import "fmt"

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "projects: tracked project records",
		SQL: `
CREATE TABLE projects (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    path               TEXT NOT NULL UNIQUE,

    -- Activity facts (unix milliseconds; NULL = unknown)
    last_commit        INTEGER,
    last_file_edit     INTEGER,
    commit_count       INTEGER NOT NULL DEFAULT 0,
    version_controlled INTEGER NOT NULL DEFAULT 0,

    -- Lifecycle flags
    paused             INTEGER NOT NULL DEFAULT 0,
    completed          INTEGER NOT NULL DEFAULT 0,

    created_at         INTEGER NOT NULL
);

CREATE INDEX idx_projects_last_commit ON projects(last_commit DESC);
`,
	},
}

// migrate applies any migrations newer than the database's current
// user_version, advancing it as each one commits.
func (db *DB) migrate() error {
	var current int
	if err := db.QueryRow("PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		// PRAGMA does not accept placeholders.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("set user_version %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}
