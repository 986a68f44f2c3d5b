// Package notify delivers nudge messages to the user.
//
// Three sinks are supported: an exec sink that shells out to the platform
// notification command (notify-send, osascript, msg), a webhook sink that
// POSTs JSON with retries, and a log-only sink for headless setups. The
// cooldown between messages is enforced by the dispatcher in
// internal/nudge, not here.
package notify

import (
	"context"
	"fmt"

	"tools.zach/dev/tend/internal/config"
)

// Notifier is the interface for notification sinks.
type Notifier interface {
	// Send delivers one message. Implementations should honor ctx
	// cancellation and return an error when delivery is rejected.
	Send(ctx context.Context, title, body string) error
}

// New creates a Notifier based on the config sink setting.
func New(cfg config.NotifyConfig) (Notifier, error) {
	switch cfg.Sink {
	case "exec":
		return NewExec(cfg.Command), nil
	case "webhook":
		if cfg.WebhookURL == "" {
			return nil, fmt.Errorf("webhook sink requires notify.webhook_url")
		}
		return NewWebhook(cfg.WebhookURL), nil
	case "log":
		return NewLog(), nil
	default:
		return nil, fmt.Errorf("unknown notify sink: %q", cfg.Sink)
	}
}
