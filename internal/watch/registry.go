package watch

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// Default timing for coalescing and settling.
const (
	// DefaultDebounce is the minimum spacing between forwarded "touched"
	// events for one directory. Raw callbacks inside the window are
	// dropped, not queued.
	DefaultDebounce = 2 * time.Second
	// DefaultSettleDelay is how long a coalesced event waits before the
	// owner is notified, letting a multi-file operation finish first.
	DefaultSettleDelay = 1 * time.Second
)

// ///////////////////////////////////////////////
// Watcher
// ///////////////////////////////////////////////

// watcher is the per-directory debounce state. Created and destroyed only
// by [Registry].
type watcher struct {
	path    string
	handle  io.Closer
	touched func(path string)

	debounce time.Duration
	settle   time.Duration

	mu          sync.Mutex
	lastForward time.Time
	pending     *time.Timer
	closed      bool
}

// onRaw handles one raw OS callback. Callbacks arriving within the debounce
// window of the last forwarded event are dropped. A forwarded event arms
// (or re-arms) the settle timer; the owner is notified once it fires.
func (w *watcher) onRaw() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	now := time.Now()
	if !w.lastForward.IsZero() && now.Sub(w.lastForward) < w.debounce {
		return
	}
	w.lastForward = now

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.settle, w.fire)
}

// fire delivers the coalesced event unless the watcher closed while the
// settle timer was pending.
func (w *watcher) fire() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}
	w.touched(w.path)
}

// close stops raw delivery and cancels any pending settle timer.
func (w *watcher) close() {
	w.mu.Lock()
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	w.mu.Unlock()

	if w.handle != nil {
		if err := w.handle.Close(); err != nil {
			slog.Debug("closing watch handle", "path", w.path, "error", err)
		}
	}
}

// ///////////////////////////////////////////////
// Registry
// ///////////////////////////////////////////////

// Registry owns the set of active directory watchers, keyed by path. No
// other component creates or destroys watchers directly.
type Registry struct {
	backend Backend
	touched func(path string)

	debounce time.Duration
	settle   time.Duration

	mu       sync.Mutex
	watchers map[string]*watcher
}

// NewRegistry creates a registry that forwards coalesced "touched" events
// to onTouched. Non-positive durations fall back to the defaults.
func NewRegistry(backend Backend, debounce, settle time.Duration, onTouched func(path string)) *Registry {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &Registry{
		backend:  backend,
		touched:  onTouched,
		debounce: debounce,
		settle:   settle,
		watchers: make(map[string]*watcher),
	}
}

// Attach starts watching path. Attaching an already-watched path is a
// no-op. A watch that cannot be established (path missing, permission
// denied) is logged and skipped; the directory is simply left unmonitored
// until the next explicit refresh.
func (r *Registry) Attach(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.watchers[path]; ok {
		return
	}

	w := &watcher{
		path:     path,
		touched:  r.touched,
		debounce: r.debounce,
		settle:   r.settle,
	}
	handle, err := r.backend.Watch(path, w.onRaw)
	if err != nil {
		slog.Warn("cannot watch directory", "path", path, "error", err)
		return
	}
	w.handle = handle
	r.watchers[path] = w
}

// Detach stops watching path and releases its resources. Detaching an
// unwatched path is a no-op.
func (r *Registry) Detach(path string) {
	r.mu.Lock()
	w, ok := r.watchers[path]
	if ok {
		delete(r.watchers, path)
	}
	r.mu.Unlock()

	if ok {
		w.close()
	}
}

// Watching reports whether path currently has an active watcher.
func (r *Registry) Watching(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.watchers[path]
	return ok
}

// Close detaches every watcher.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*watcher, 0, len(r.watchers))
	for _, w := range r.watchers {
		all = append(all, w)
	}
	r.watchers = make(map[string]*watcher)
	r.mu.Unlock()

	for _, w := range all {
		w.close()
	}
}
