// Package project defines the tracked-project data model and the derived
// momentum computations built on top of it.
//
// A [Project] carries two independent activity facts: the newest file
// modification time seen under the project directory and the timestamp of
// the most recent commit in its version-control history. Everything else
// (last activity, days inactive, momentum score, tier) is derived on demand
// and never stored.
package project

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// NeverActive is the sentinel returned by [Project.DaysInactive] when a
// project has no recorded activity from either source. It compares greater
// than any real day count, so never-touched projects rank as the most
// neglected.
const NeverActive = math.MaxInt32

// ///////////////////////////////////////////////
// Project
// ///////////////////////////////////////////////

// Project is one tracked directory. The Path is the unique key; no two
// tracked projects may share a path.
type Project struct {
	// ID is a stable unique identifier assigned at creation.
	ID string
	// Name is the display name, defaulting to the directory base name.
	Name string
	// Path is the absolute directory path being tracked.
	Path string

	// LastCommit is the timestamp of the newest commit in the project's
	// version-control history; nil when unknown.
	LastCommit *time.Time
	// LastFileEdit is the newest file modification time seen under the
	// project directory; nil when unknown.
	LastFileEdit *time.Time
	// CommitCount is the total number of commits on the current branch.
	CommitCount int
	// VersionControlled reports whether the directory is a VCS repository.
	VersionControlled bool

	// Paused suppresses watching and nudging without forgetting the project.
	Paused bool
	// Completed marks the project finished; it pins momentum at 100 and
	// suppresses watching and nudging.
	Completed bool

	// CreatedAt records when the project was first tracked.
	CreatedAt time.Time
}

// New creates a Project for the given directory path with a fresh ID.
func New(name, path string) *Project {
	return &Project{
		ID:        uuid.NewString(),
		Name:      name,
		Path:      path,
		CreatedAt: time.Now(),
	}
}

// Watchable reports whether the project should have an active directory
// watcher. Paused and completed projects are never watched.
func (p *Project) Watchable() bool {
	return !p.Paused && !p.Completed
}

// LastActivity returns the more recent of the two activity facts.
// ok is false when neither fact is known.
func (p *Project) LastActivity() (t time.Time, ok bool) {
	if p.LastCommit != nil {
		t, ok = *p.LastCommit, true
	}
	if p.LastFileEdit != nil && (!ok || p.LastFileEdit.After(t)) {
		t, ok = *p.LastFileEdit, true
	}
	return t, ok
}

// DaysInactive returns the whole days between the last activity and now,
// or [NeverActive] when the project has no recorded activity. Clock skew
// producing a future last-activity timestamp clamps to 0.
func (p *Project) DaysInactive(now time.Time) int {
	last, ok := p.LastActivity()
	if !ok {
		return NeverActive
	}
	return wholeDays(last, now)
}

// wholeDays returns the non-negative whole-day span between from and to.
func wholeDays(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
