// Package insight optionally augments nudge messages with a one-line
// observation produced by an LLM command-line tool.
//
// The generator is strictly best-effort: any failure (missing binary,
// timeout, empty output) leaves the plain formatted message unchanged.
package insight

import (
	"context"
	"fmt"
	"time"

	"tools.zach/dev/tend/internal/project"
)

// Client is the interface for insight generators.
type Client interface {
	// Observation returns a short remark about the project's current state.
	Observation(ctx context.Context, p *project.Project, now time.Time) (string, error)
}

// prompt renders the request sent to the generator.
func prompt(p *project.Project, now time.Time) string {
	days := p.DaysInactive(now)
	activity := "no recorded activity"
	if days != project.NeverActive {
		activity = fmt.Sprintf("last activity %d days ago", days)
	}
	return fmt.Sprintf(
		"In one sentence, give a motivating observation about a side project named %q with %d commits and %s. Plain text only.",
		p.Name, p.CommitCount, activity)
}
