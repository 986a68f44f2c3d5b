package insight

import (
	"context"
	"time"

	"tools.zach/dev/tend/internal/project"
)

// Mock is a test double for the insight Client interface.
type Mock struct {
	Text  string
	Err   error
	Calls []string // records project names asked about
}

// Observation records the call and returns the configured response.
func (m *Mock) Observation(_ context.Context, p *project.Project, _ time.Time) (string, error) {
	m.Calls = append(m.Calls, p.Name)
	return m.Text, m.Err
}
