// Tests for the nudge message formatter: every style must name the project
// and reflect the day count, with tone banding by inactivity.
package project

import (
	"strings"
	"testing"
	"time"
)

func TestFormatNudgeContainsNameAndDays(t *testing.T) {
	now := time.Now()
	p := &Project{Name: "raytracer", LastCommit: at(now, 10), CommitCount: 42}

	for _, style := range Styles {
		t.Run(string(style), func(t *testing.T) {
			body := FormatNudge(p, style, now)
			if !strings.Contains(body, "raytracer") {
				t.Errorf("%s body %q missing project name", style, body)
			}
			if !strings.Contains(body, "10 days") {
				t.Errorf("%s body %q missing day count", style, body)
			}
		})
	}
}

func TestFormatNudgeBanding(t *testing.T) {
	now := time.Now()
	// The same style must produce different wording in each band.
	bodies := map[int]string{}
	for _, d := range []int{5, 10, 20} {
		p := &Project{Name: "zine", LastCommit: at(now, d)}
		bodies[d] = FormatNudge(p, StyleEncouraging, now)
	}
	if bodies[5] == bodies[10] || bodies[10] == bodies[20] || bodies[5] == bodies[20] {
		t.Errorf("expected distinct banded messages, got %v", bodies)
	}
}

func TestFormatNudgeDataStyle(t *testing.T) {
	now := time.Now()
	p := &Project{Name: "zine", LastCommit: at(now, 12), CommitCount: 7}
	body := FormatNudge(p, StyleData, now)

	for _, want := range []string{"commits: 7", "tier: inactive", "momentum:"} {
		if !strings.Contains(body, want) {
			t.Errorf("data body %q missing %q", body, want)
		}
	}
}

func TestFormatNudgeNeverActive(t *testing.T) {
	now := time.Now()
	p := &Project{Name: "ghost"}
	for _, style := range Styles {
		body := FormatNudge(p, style, now)
		if strings.Contains(body, "2147483647") {
			t.Errorf("%s body %q leaks the never-active sentinel", style, body)
		}
	}
}

func TestValidStyle(t *testing.T) {
	for _, s := range Styles {
		if !ValidStyle(s) {
			t.Errorf("ValidStyle(%q) = false, want true", s)
		}
	}
	if ValidStyle("sarcastic") {
		t.Error("ValidStyle accepted an unknown style")
	}
}
