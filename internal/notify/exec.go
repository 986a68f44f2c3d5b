package notify

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// execTimeout bounds the notification command so a wedged helper cannot
// stall a scheduler wake.
const execTimeout = 15 * time.Second

// Exec delivers notifications by running a configured command. {title} and
// {body} placeholders in the argv are substituted per message.
type Exec struct {
	argv []string
}

// NewExec creates an exec notifier. An empty argv selects the platform
// default command.
func NewExec(argv []string) *Exec {
	if len(argv) == 0 {
		argv = defaultCommand()
	}
	return &Exec{argv: argv}
}

// defaultCommand returns the conventional desktop notification command for
// the current platform.
func defaultCommand() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"osascript", "-e", `display notification "{body}" with title "{title}"`}
	case "windows":
		return []string{"msg", "*", "{title}: {body}"}
	default:
		return []string{"notify-send", "{title}", "{body}"}
	}
}

// Send substitutes the placeholders and runs the command.
func (e *Exec) Send(ctx context.Context, title, body string) error {
	ctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	r := strings.NewReplacer("{title}", title, "{body}", body)
	args := make([]string, len(e.argv))
	for i, a := range e.argv {
		args[i] = r.Replace(a)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("notify command %s: %w (stderr: %s)", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
