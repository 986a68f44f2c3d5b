// Package monitor owns the tracked-project collection.
//
// Three independent activity streams converge here: coalesced directory
// change events from the watch registry, the hourly nudge scheduler reading
// snapshots, and user-driven refreshes. Every mutation of a project's
// activity facts goes through the monitor's single lock, and probes run
// outside it so a slow git subprocess never blocks readers.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"tools.zach/dev/tend/internal/project"
	"tools.zach/dev/tend/internal/vcs"
	"tools.zach/dev/tend/internal/watch"
)

// Store is the persistence collaborator. Implemented by internal/store.
type Store interface {
	LoadProjects() ([]*project.Project, error)
	SaveProject(*project.Project) error
	DeleteProject(path string) error
}

// Options tunes monitor behavior. Zero values select defaults.
type Options struct {
	// ScanCap bounds each file-modification scan.
	ScanCap int
	// Debounce and Settle override the watch timing; used by tests.
	Debounce time.Duration
	Settle   time.Duration
}

// Monitor serializes all access to the project collection and owns the
// watcher registry.
type Monitor struct {
	store    Store
	registry *watch.Registry
	scanCap  int

	mu       sync.Mutex
	projects map[string]*project.Project // keyed by path
	order    []string                    // stable insertion order for deterministic snapshots
}

// New creates a Monitor over the given store and watch backend. Call
// [Monitor.Start] to load persisted projects and attach watchers.
func New(st Store, backend watch.Backend, opts Options) *Monitor {
	m := &Monitor{
		store:    st,
		scanCap:  opts.ScanCap,
		projects: make(map[string]*project.Project),
	}
	m.registry = watch.NewRegistry(backend, opts.Debounce, opts.Settle, m.handleTouched)
	return m
}

// Start loads the persisted project set and attaches a watcher to every
// watchable project.
func (m *Monitor) Start(ctx context.Context) error {
	loaded, err := m.store.LoadProjects()
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}

	m.mu.Lock()
	for _, p := range loaded {
		if _, dup := m.projects[p.Path]; dup {
			continue
		}
		m.projects[p.Path] = p
		m.order = append(m.order, p.Path)
	}
	watchable := m.watchablePathsLocked()
	m.mu.Unlock()

	for _, path := range watchable {
		m.registry.Attach(path)
	}
	slog.Info("monitor started", "projects", len(loaded), "watched", len(watchable))
	return nil
}

// Stop detaches all watchers. Pending re-probes become no-ops.
func (m *Monitor) Stop() {
	m.registry.Close()
}

// watchablePathsLocked returns paths of projects that should be watched.
// Caller holds m.mu.
func (m *Monitor) watchablePathsLocked() []string {
	var out []string
	for _, path := range m.order {
		if p := m.projects[path]; p != nil && p.Watchable() {
			out = append(out, path)
		}
	}
	return out
}

// ///////////////////////////////////////////////
// Lifecycle Operations
// ///////////////////////////////////////////////

// Track starts tracking a new project directory. The path must not already
// be tracked. The initial probe runs before the project becomes visible.
func (m *Monitor) Track(ctx context.Context, path string) (*project.Project, error) {
	path = filepath.Clean(path)

	m.mu.Lock()
	_, dup := m.projects[path]
	m.mu.Unlock()
	if dup {
		return nil, fmt.Errorf("already tracking %s", path)
	}

	p := project.New(filepath.Base(path), path)
	probeInto(ctx, p, m.scanCap)

	m.mu.Lock()
	if _, dup := m.projects[path]; dup {
		m.mu.Unlock()
		return nil, fmt.Errorf("already tracking %s", path)
	}
	m.projects[path] = p
	m.order = append(m.order, path)
	m.mu.Unlock()

	if err := m.store.SaveProject(p); err != nil {
		return nil, err
	}
	m.registry.Attach(path)
	slog.Info("tracking project", "name", p.Name, "path", path)
	return m.snapshotOne(path), nil
}

// Discover scans the given roots for version-controlled directories and
// tracks any that are not yet known. Returns the number of new projects.
func (m *Monitor) Discover(ctx context.Context, roots []string, maxDepth int, ignored func(string) bool) int {
	added := 0
	for _, dir := range vcs.Discover(roots, maxDepth, ignored) {
		m.mu.Lock()
		_, known := m.projects[dir]
		m.mu.Unlock()
		if known {
			continue
		}
		if _, err := m.Track(ctx, dir); err != nil {
			slog.Warn("discovery track failed", "path", dir, "error", err)
			continue
		}
		added++
	}
	return added
}

// Remove stops tracking the project at path and deletes its record.
func (m *Monitor) Remove(path string) error {
	path = filepath.Clean(path)
	m.registry.Detach(path)

	m.mu.Lock()
	if _, ok := m.projects[path]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("not tracking %s", path)
	}
	delete(m.projects, path)
	for i, o := range m.order {
		if o == path {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	return m.store.DeleteProject(path)
}

// SetPaused pauses or resumes the project at path, detaching or
// re-attaching its watcher accordingly.
func (m *Monitor) SetPaused(path string, paused bool) error {
	return m.setFlag(path, func(p *project.Project) { p.Paused = paused })
}

// SetCompleted marks the project completed or reopens it, detaching or
// re-attaching its watcher accordingly.
func (m *Monitor) SetCompleted(path string, completed bool) error {
	return m.setFlag(path, func(p *project.Project) { p.Completed = completed })
}

// setFlag applies a lifecycle mutation under the lock, persists it, and
// reconciles the watcher with the project's new watchable state.
func (m *Monitor) setFlag(path string, mutate func(*project.Project)) error {
	path = filepath.Clean(path)

	m.mu.Lock()
	p, ok := m.projects[path]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("not tracking %s", path)
	}
	mutate(p)
	watchable := p.Watchable()
	saved := *p
	m.mu.Unlock()

	if watchable {
		m.registry.Attach(path)
	} else {
		m.registry.Detach(path)
	}
	return m.store.SaveProject(&saved)
}

// ///////////////////////////////////////////////
// Snapshots
// ///////////////////////////////////////////////

// Snapshot returns value copies of every tracked project in stable
// insertion order. Each copy is internally consistent: both activity facts
// come from the same locked read.
func (m *Monitor) Snapshot() []project.Project {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]project.Project, 0, len(m.order))
	for _, path := range m.order {
		if p := m.projects[path]; p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// snapshotOne returns a copy of one project, or nil if untracked.
func (m *Monitor) snapshotOne(path string) *project.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[path]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ///////////////////////////////////////////////
// Probing and Merge
// ///////////////////////////////////////////////

// Refresh re-probes one project on demand and merges the result.
func (m *Monitor) Refresh(ctx context.Context, path string) error {
	path = filepath.Clean(path)
	m.mu.Lock()
	_, ok := m.projects[path]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("not tracking %s", path)
	}
	m.reprobe(ctx, path, false)
	return nil
}

// RefreshAll re-probes every tracked project, including paused and
// completed ones (an explicit refresh is the one path that updates facts
// for unwatched projects).
func (m *Monitor) RefreshAll(ctx context.Context) {
	m.mu.Lock()
	all := make([]string, len(m.order))
	copy(all, m.order)
	m.mu.Unlock()

	for _, path := range all {
		m.reprobe(ctx, path, false)
	}
}

// handleTouched receives coalesced change events from the watch registry.
// It runs on a watcher timer goroutine.
func (m *Monitor) handleTouched(path string) {
	slog.Debug("directory touched", "path", path)
	m.reprobe(context.Background(), path, true)
}

// reprobe recomputes the activity facts for path and merges them into the
// project record. The scan and the git subprocess run outside the lock.
// When requireWatchable is set (watcher-triggered re-probes), a project
// that was paused, completed, or removed while the probe was in flight is
// left untouched.
func (m *Monitor) reprobe(ctx context.Context, path string, requireWatchable bool) {
	versioned := vcs.IsRepo(path)

	lastEdit, editOK := vcs.LatestModTime(path, m.scanCap)
	var probed vcs.Result
	if versioned {
		probed = vcs.Probe(ctx, path)
	}

	m.mu.Lock()
	p, ok := m.projects[path]
	if !ok || (requireWatchable && !p.Watchable()) {
		m.mu.Unlock()
		return
	}
	p.VersionControlled = versioned
	if editOK {
		t := lastEdit
		p.LastFileEdit = &t
	}
	if probed.LastCommit != nil {
		p.LastCommit = probed.LastCommit
		p.CommitCount = probed.CommitCount
	}
	saved := *p
	m.mu.Unlock()

	if err := m.store.SaveProject(&saved); err != nil {
		slog.Warn("persist probe result failed", "path", path, "error", err)
	}
}

// probeInto populates a fresh project's activity facts in place. Used
// before the project is shared, so no locking is needed.
func probeInto(ctx context.Context, p *project.Project, scanCap int) {
	p.VersionControlled = vcs.IsRepo(p.Path)
	if t, ok := vcs.LatestModTime(p.Path, scanCap); ok {
		p.LastFileEdit = &t
	}
	if p.VersionControlled {
		res := vcs.Probe(ctx, p.Path)
		if res.LastCommit != nil {
			p.LastCommit = res.LastCommit
			p.CommitCount = res.CommitCount
		}
	}
}
