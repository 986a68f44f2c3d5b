// Package watch delivers coalesced per-directory change notifications.
//
// Raw OS notifications may arrive many times per second during a burst (a
// build, a git checkout). Each watched directory enforces a minimum spacing
// between the "touched" events it forwards, then waits a short settle delay
// before notifying the owner, so a multi-file operation is reported once
// after it finishes rather than once per file.
package watch

import (
	"io"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// ///////////////////////////////////////////////
// Backend
// ///////////////////////////////////////////////

// Backend abstracts the OS-level change notification mechanism so the
// registry logic stays portable and testable with a fake driven
// synchronously from tests.
type Backend interface {
	// Watch starts delivery of raw change callbacks for path. onEvent may
	// be invoked from arbitrary goroutines until the returned handle is
	// closed.
	Watch(path string, onEvent func()) (io.Closer, error)
}

// ///////////////////////////////////////////////
// fsnotify Backend
// ///////////////////////////////////////////////

// FSBackend implements [Backend] on top of fsnotify. Each watched path gets
// its own fsnotify watcher so one failing directory cannot disturb others.
type FSBackend struct{}

// NewFSBackend returns the fsnotify-based backend.
func NewFSBackend() *FSBackend { return &FSBackend{} }

// Watch registers path with a dedicated fsnotify watcher and pumps its
// event stream into onEvent until the handle is closed.
func (b *FSBackend) Watch(path string, onEvent func()) (io.Closer, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					onEvent()
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				slog.Debug("fsnotify error", "path", path, "error", err)
			}
		}
	}()

	return fsw, nil
}
