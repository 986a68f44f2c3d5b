package project

import (
	"math"
	"time"
)

// ///////////////////////////////////////////////
// Tiers
// ///////////////////////////////////////////////

// Tier classifies a project by days since its last activity.
type Tier int

const (
	// TierActive covers projects touched within the last 2 days.
	TierActive Tier = iota
	// TierCooling covers projects inactive for 3–7 days.
	TierCooling
	// TierInactive covers projects inactive for 8–30 days.
	TierInactive
	// TierDormant covers projects inactive for more than 30 days,
	// including projects with no recorded activity at all.
	TierDormant
	// TierCompleted is the UI-facing state for completed projects. It is
	// never produced by [Score]; [Momentum] reports it when the completed
	// flag overrides decay entirely.
	TierCompleted
)

// String returns the display name for a tier.
func (t Tier) String() string {
	switch t {
	case TierActive:
		return "active"
	case TierCooling:
		return "cooling"
	case TierInactive:
		return "inactive"
	case TierDormant:
		return "dormant"
	case TierCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// ///////////////////////////////////////////////
// Scoring
// ///////////////////////////////////////////////

// decayDays is the e-folding constant of the momentum curve: the score
// falls to ~50% after about a week and ~10% after about three weeks.
const decayDays = 10.0

// Score computes the momentum value and tier for a last-activity timestamp.
// A nil lastActivity yields 0 and [TierDormant]. The value is a continuous
// exponential decay, 100*e^(-d/10) over whole days d, clamped to [0,100].
// Deterministic and safe for concurrent callers.
func Score(lastActivity *time.Time, now time.Time) (float64, Tier) {
	if lastActivity == nil {
		return 0, TierDormant
	}
	d := wholeDays(*lastActivity, now)

	value := 100 * math.Exp(-float64(d)/decayDays)
	value = math.Min(100, math.Max(0, value))

	return value, tierForDays(d)
}

// tierForDays maps a whole-day inactivity count onto a tier.
func tierForDays(d int) Tier {
	switch {
	case d <= 2:
		return TierActive
	case d <= 7:
		return TierCooling
	case d <= 30:
		return TierInactive
	default:
		return TierDormant
	}
}

// Momentum computes the project's score and tier at the given instant.
// A completed project is always 100/[TierCompleted] regardless of
// inactivity; otherwise the result follows [Score] over the merged
// last-activity timestamp.
func (p *Project) Momentum(now time.Time) (float64, Tier) {
	if p.Completed {
		return 100, TierCompleted
	}
	last, ok := p.LastActivity()
	if !ok {
		return Score(nil, now)
	}
	return Score(&last, now)
}
