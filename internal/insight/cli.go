package insight

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"tools.zach/dev/tend/internal/project"
)

// CLI invokes a configured LLM command (e.g. `claude -p`) as a subprocess,
// writing the prompt to stdin and reading the observation from stdout.
type CLI struct {
	argv    []string
	timeout time.Duration
}

// NewCLI creates a CLI insight client. argv must name the executable and
// its fixed arguments.
func NewCLI(argv []string, timeout time.Duration) *CLI {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CLI{argv: argv, timeout: timeout}
}

// Observation runs the command and returns its trimmed stdout.
func (c *CLI) Observation(ctx context.Context, p *project.Project, now time.Time) (string, error) {
	if len(c.argv) == 0 {
		return "", fmt.Errorf("insight command not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.argv[0], c.argv[1:]...)
	cmd.Stdin = strings.NewReader(prompt(p, now))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("insight command: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return "", fmt.Errorf("insight command produced no output")
	}
	return out, nil
}
