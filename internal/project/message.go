package project

import (
	"fmt"
	"time"
)

// ///////////////////////////////////////////////
// Motivation Styles
// ///////////////////////////////////////////////

// Style selects the tone of nudge messages.
type Style string

const (
	// StyleEncouraging is gentle and positive.
	StyleEncouraging Style = "encouraging"
	// StyleChallenging is direct and competitive.
	StyleChallenging Style = "challenging"
	// StyleGuilt leans on the sunk cost.
	StyleGuilt Style = "guilt"
	// StyleData is a neutral stats dump with no banding.
	StyleData Style = "data"
)

// Styles lists all supported motivation styles.
var Styles = []Style{StyleEncouraging, StyleChallenging, StyleGuilt, StyleData}

// ValidStyle reports whether s names a supported style.
func ValidStyle(s Style) bool {
	for _, known := range Styles {
		if s == known {
			return true
		}
	}
	return false
}

// ///////////////////////////////////////////////
// Formatting
// ///////////////////////////////////////////////

// FormatNudge renders the nudge body for a project in the given style.
// The first three styles band their tone by the day count (≤7 / ≤14 / >14);
// the data style is a fixed template. Pure function of its inputs.
func FormatNudge(p *Project, style Style, now time.Time) string {
	days := p.DaysInactive(now)

	switch style {
	case StyleChallenging:
		return challengingBody(p.Name, days)
	case StyleGuilt:
		return guiltBody(p, days)
	case StyleData:
		return dataBody(p, now, days)
	default:
		return encouragingBody(p.Name, days)
	}
}

// dayPhrase renders a day count for message text.
func dayPhrase(days int) string {
	switch {
	case days == NeverActive:
		return "a long while"
	case days == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

func encouragingBody(name string, days int) string {
	phrase := dayPhrase(days)
	switch {
	case days != NeverActive && days <= 7:
		return fmt.Sprintf("%s is still warm, it's only been %s. A small session now keeps the streak alive.", name, phrase)
	case days != NeverActive && days <= 14:
		return fmt.Sprintf("%s has been quiet for %s. Even fifteen minutes would bring it back to life.", name, phrase)
	default:
		return fmt.Sprintf("%s has been waiting %s. No pressure, just pick one tiny task and start there.", name, phrase)
	}
}

func challengingBody(name string, days int) string {
	phrase := dayPhrase(days)
	switch {
	case days != NeverActive && days <= 7:
		return fmt.Sprintf("%s: %s without a commit. You were on a roll, don't let it slip now.", name, phrase)
	case days != NeverActive && days <= 14:
		return fmt.Sprintf("%s idle for %s. Other people ship in less. Prove you can close the gap.", name, phrase)
	default:
		return fmt.Sprintf("%s untouched for %s. Finish it or admit it's dead, which is it?", name, phrase)
	}
}

func guiltBody(p *Project, days int) string {
	phrase := dayPhrase(days)
	switch {
	case days != NeverActive && days <= 7:
		return fmt.Sprintf("%s misses you already. %s and counting.", p.Name, phrase)
	case days != NeverActive && days <= 14:
		return fmt.Sprintf("Remember %s? It's been sitting there for %s wondering what it did wrong.", p.Name, phrase)
	default:
		return fmt.Sprintf("You poured %d commits into %s and then vanished for %s. It deserves better.", p.CommitCount, p.Name, phrase)
	}
}

// dataBody is the fixed stats template, independent of banding.
func dataBody(p *Project, now time.Time, days int) string {
	score, tier := p.Momentum(now)
	return fmt.Sprintf("%s | inactive: %s, commits: %d, momentum: %.0f/100, tier: %s",
		p.Name, dayPhrase(days), p.CommitCount, score, tier)
}
