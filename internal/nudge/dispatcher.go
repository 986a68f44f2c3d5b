// Package nudge decides when to remind the user about neglected projects.
//
// The [Scheduler] wakes hourly, filters the current project snapshot
// against quiet hours and inactivity, and picks at most one candidate per
// wake. The [Dispatcher] owns the per-project cooldown ledger: the
// scheduler may nominate the same project every wake, and the dispatcher
// suppresses redundant sends.
package nudge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tools.zach/dev/tend/internal/notify"
)

// Dispatcher delivers nudges through a [notify.Notifier] while enforcing a
// minimum resend interval per project. The ledger is ephemeral; a daemon
// restart resets cooldowns.
type Dispatcher struct {
	notifier notify.Notifier

	mu       sync.Mutex
	lastSent map[string]time.Time // keyed by project ID

	// now is the clock; replaceable in tests.
	now func() time.Time
}

// NewDispatcher creates a dispatcher over the given sink.
func NewDispatcher(n notify.Notifier) *Dispatcher {
	return &Dispatcher{
		notifier: n,
		lastSent: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Send delivers a message for projectID unless one was already sent within
// minInterval. Returns whether delivery happened. A delivery rejection is
// returned as an error and does not start a cooldown, so the next wake may
// retry.
func (d *Dispatcher) Send(ctx context.Context, title, body, projectID string, minInterval time.Duration) (bool, error) {
	d.mu.Lock()
	last, seen := d.lastSent[projectID]
	now := d.now()
	if seen && now.Sub(last) < minInterval {
		d.mu.Unlock()
		slog.Debug("nudge suppressed by cooldown", "project_id", projectID,
			"since_last", now.Sub(last).Round(time.Minute))
		return false, nil
	}
	d.mu.Unlock()

	if err := d.notifier.Send(ctx, title, body); err != nil {
		return false, err
	}

	d.mu.Lock()
	d.lastSent[projectID] = now
	d.mu.Unlock()
	return true, nil
}
