package store

import (
	"database/sql"
	"fmt"
	"time"

	"tools.zach/dev/tend/internal/project"
)

// projectColumns is the canonical column list shared by every SELECT.
const projectColumns = `id, name, path, last_commit, last_file_edit, commit_count, version_controlled, paused, completed, created_at`

// SaveProject inserts or updates a project record, keyed by path.
func (db *DB) SaveProject(p *project.Project) error {
	_, err := db.Exec(`
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name               = excluded.name,
			last_commit        = excluded.last_commit,
			last_file_edit     = excluded.last_file_edit,
			commit_count       = excluded.commit_count,
			version_controlled = excluded.version_controlled,
			paused             = excluded.paused,
			completed          = excluded.completed
	`, p.ID, p.Name, p.Path,
		timeToMilli(p.LastCommit), timeToMilli(p.LastFileEdit),
		p.CommitCount, boolToInt(p.VersionControlled),
		boolToInt(p.Paused), boolToInt(p.Completed),
		p.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.Path, err)
	}
	return nil
}

// LoadProjects returns all tracked projects in insertion order.
func (db *DB) LoadProjects() ([]*project.Project, error) {
	rows, err := db.Query(`
		SELECT ` + projectColumns + `
		FROM projects ORDER BY created_at ASC, path ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	defer rows.Close()

	var out []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	return out, nil
}

// GetProject returns the project tracked at path, or nil if none exists.
func (db *DB) GetProject(path string) (*project.Project, error) {
	row := db.QueryRow(`
		SELECT `+projectColumns+`
		FROM projects WHERE path = ?
	`, path)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProject removes the project tracked at path. Deleting an untracked
// path is a no-op.
func (db *DB) DeleteProject(path string) error {
	if _, err := db.Exec(`DELETE FROM projects WHERE path = ?`, path); err != nil {
		return fmt.Errorf("delete project %s: %w", path, err)
	}
	return nil
}

// ///////////////////////////////////////////////
// Row Mapping
// ///////////////////////////////////////////////

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*project.Project, error) {
	var (
		p                      project.Project
		lastCommit, lastEdit   sql.NullInt64
		vcs, paused, completed int
		createdAt              int64
	)
	err := s.Scan(&p.ID, &p.Name, &p.Path, &lastCommit, &lastEdit,
		&p.CommitCount, &vcs, &paused, &completed, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	p.LastCommit = milliToTime(lastCommit)
	p.LastFileEdit = milliToTime(lastEdit)
	p.VersionControlled = vcs != 0
	p.Paused = paused != 0
	p.Completed = completed != 0
	p.CreatedAt = time.UnixMilli(createdAt)
	return &p, nil
}

func timeToMilli(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func milliToTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64)
	return &t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
