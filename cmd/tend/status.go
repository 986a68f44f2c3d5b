package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"tools.zach/dev/tend/internal/project"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon state and a momentum summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := dataPaths()

		if pid, ok := daemonPID(paths); ok {
			fmt.Printf("daemon: running (pid %d)\n", pid)
		} else {
			fmt.Println("daemon: not running")
		}

		_, db, err := openDeps()
		if err != nil {
			return err
		}
		defer db.Close()

		projects, err := db.LoadProjects()
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("projects: none tracked")
			return nil
		}

		now := time.Now()
		counts := make(map[project.Tier]int)
		paused := 0
		for _, p := range projects {
			_, tier := p.Momentum(now)
			counts[tier]++
			if p.Paused {
				paused++
			}
		}

		fmt.Printf("projects: %d tracked", len(projects))
		if paused > 0 {
			fmt.Printf(" (%d paused)", paused)
		}
		fmt.Println()
		for _, tier := range []project.Tier{
			project.TierActive, project.TierCooling, project.TierInactive,
			project.TierDormant, project.TierCompleted,
		} {
			if n := counts[tier]; n > 0 {
				fmt.Printf("  %-10s %d\n", tier.String(), n)
			}
		}
		return nil
	},
}

// daemonPID reads the PID file and reports whether a daemon instance wrote
// it. The lock, not the file's presence, is authoritative: a stale file
// left by a crash still fails the liveness check at the next `tend run`,
// so this is a best-effort read for display only.
func daemonPID(paths DataPaths) (int, bool) {
	data, err := os.ReadFile(paths.PID())
	if err != nil {
		return 0, false
	}
	parts := strings.SplitN(strings.TrimSpace(string(data)), ":", 2)
	pid, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	return pid, true
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
