package notify

import (
	"context"
	"log/slog"
)

// Log is a sink that only writes messages to the daemon log. Useful on
// headless machines and in tests.
type Log struct{}

// NewLog creates a log-only notifier.
func NewLog() *Log { return &Log{} }

// Send writes the message at info level and always reports success.
func (l *Log) Send(_ context.Context, title, body string) error {
	slog.Info("nudge", "title", title, "body", body)
	return nil
}
