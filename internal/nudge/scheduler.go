package nudge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tools.zach/dev/tend/internal/insight"
	"tools.zach/dev/tend/internal/project"
)

// WakeInterval is the scheduler's wake period. Drift is acceptable; there
// is no requirement for wall-clock-exact firing.
const WakeInterval = time.Hour

// MinDaysInactive is the inactivity threshold for nudge eligibility.
const MinDaysInactive = 7

// ///////////////////////////////////////////////
// Collaborator Interfaces
// ///////////////////////////////////////////////

// Settings are the user preferences read at the moment of each wake.
// Mid-cycle changes are not observed.
type Settings struct {
	QuietHoursStart int
	QuietHoursEnd   int
	FrequencyHours  int
	Style           project.Style
}

// SettingsSource supplies current settings per wake.
type SettingsSource interface {
	Current() Settings
}

// StaticSettings is a SettingsSource that always returns the same values.
type StaticSettings Settings

// Current returns the fixed settings.
func (s StaticSettings) Current() Settings { return Settings(s) }

// Snapshotter supplies a consistent copy of the tracked projects.
// Implemented by the monitor.
type Snapshotter interface {
	Snapshot() []project.Project
}

// ///////////////////////////////////////////////
// Scheduler
// ///////////////////////////////////////////////

// Scheduler is the hourly evaluation loop. It runs until its context is
// cancelled; cancellation interrupts the sleep promptly.
type Scheduler struct {
	projects   Snapshotter
	settings   SettingsSource
	dispatcher *Dispatcher

	// insights is optional; nil disables LLM augmentation.
	insights insight.Client

	// interval and now are replaceable in tests.
	interval time.Duration
	now      func() time.Time
}

// NewScheduler creates a scheduler. insights may be nil.
func NewScheduler(projects Snapshotter, settings SettingsSource, d *Dispatcher, insights insight.Client) *Scheduler {
	return &Scheduler{
		projects:   projects,
		settings:   settings,
		dispatcher: d,
		insights:   insights,
		interval:   WakeInterval,
		now:        time.Now,
	}
}

// Run executes the wake loop until ctx is cancelled. Each wake evaluates
// once; an unexpected panic during evaluation is logged and the loop
// continues with the next wake.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("nudge scheduler started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("nudge scheduler stopped")
			return
		case <-ticker.C:
			s.safeEvaluate(ctx)
		}
	}
}

// safeEvaluate runs one evaluation cycle, recovering from panics so a bad
// cycle cannot kill the loop.
func (s *Scheduler) safeEvaluate(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("nudge evaluation panic", "error", r)
		}
	}()
	s.Evaluate(ctx)
}

// Evaluate performs one wake: quiet-hours check, candidate selection, and
// at most one dispatch.
func (s *Scheduler) Evaluate(ctx context.Context) {
	st := s.settings.Current()
	now := s.now()

	if InQuietHours(now.Hour(), st.QuietHoursStart, st.QuietHoursEnd) {
		slog.Debug("inside quiet hours, skipping wake", "hour", now.Hour())
		return
	}

	candidate := pick(s.projects.Snapshot(), now)
	if candidate == nil {
		return
	}

	title := fmt.Sprintf("%s needs attention", candidate.Name)
	body := project.FormatNudge(candidate, st.Style, now)
	if s.insights != nil {
		if obs, err := s.insights.Observation(ctx, candidate, now); err == nil {
			body = body + "\n" + obs
		} else {
			slog.Debug("insight unavailable", "project", candidate.Name, "error", err)
		}
	}

	cooldown := time.Duration(st.FrequencyHours) * time.Hour
	delivered, err := s.dispatcher.Send(ctx, title, body, candidate.ID, cooldown)
	if err != nil {
		// No retry within this cycle; the next wake is the retry.
		slog.Warn("nudge delivery failed", "project", candidate.Name, "error", err)
		return
	}
	if delivered {
		slog.Info("nudge sent", "project", candidate.Name,
			"days_inactive", candidate.DaysInactive(now))
	}
}

// ///////////////////////////////////////////////
// Selection
// ///////////////////////////////////////////////

// InQuietHours reports whether hour falls inside the configured no-nudge
// window. A window with start > end wraps past midnight; start == end
// means no quiet window at all.
func InQuietHours(hour, start, end int) bool {
	switch {
	case start == end:
		return false
	case start < end:
		return hour >= start && hour < end
	default:
		return hour >= start || hour < end
	}
}

// pick returns the eligible project with the most days inactive, or nil.
// Eligible means not paused, not completed, and inactive for at least
// [MinDaysInactive] days (never-active projects rank as infinitely
// inactive). Ties keep the first project in snapshot order.
func pick(projects []project.Project, now time.Time) *project.Project {
	var best *project.Project
	bestDays := -1
	for i := range projects {
		p := &projects[i]
		if p.Paused || p.Completed {
			continue
		}
		days := p.DaysInactive(now)
		if days < MinDaysInactive {
			continue
		}
		if days > bestDays {
			best, bestDays = p, days
		}
	}
	return best
}
