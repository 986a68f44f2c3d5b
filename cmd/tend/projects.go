package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"tools.zach/dev/tend/internal/config"
	"tools.zach/dev/tend/internal/project"
	"tools.zach/dev/tend/internal/store"
	"tools.zach/dev/tend/internal/vcs"
)

// Project management commands operate on the database directly so projects
// can be managed while the daemon is stopped. The daemon picks changes up
// at its next start; while running, its own watcher events keep records
// fresh.

var addCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Track a project directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", path)
		}

		cfg, db, err := openDeps()
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.IsIgnored(path) {
			return fmt.Errorf("%s matches a configured ignore pattern", path)
		}
		if existing, err := db.GetProject(path); err != nil {
			return err
		} else if existing != nil {
			return fmt.Errorf("already tracking %s", path)
		}

		p := project.New(filepath.Base(path), path)
		p.VersionControlled = vcs.IsRepo(path)
		if t, ok := vcs.LatestModTime(path, cfg.Monitor.ScanCap); ok {
			p.LastFileEdit = &t
		}
		if p.VersionControlled {
			res := vcs.Probe(context.Background(), path)
			if res.LastCommit != nil {
				p.LastCommit = res.LastCommit
				p.CommitCount = res.CommitCount
			}
		}

		if err := db.SaveProject(p); err != nil {
			return err
		}
		fmt.Printf("tracking %s\n", path)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked projects with momentum scores",
	RunE: func(cmd *cobra.Command, args []string) error {
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
			fmt.Println("no projects tracked; run `tend add <path>`")
			return nil
		}

		now := time.Now()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTIER\tSCORE\tINACTIVE\tCOMMITS\tPATH")
		for _, p := range projects {
			score, tier := p.Momentum(now)
			fmt.Fprintf(w, "%s%s\t%s\t%.0f\t%s\t%d\t%s\n",
				p.Name, flagSuffix(p), tier, score,
				inactiveLabel(p, now), p.CommitCount, p.Path)
		}
		return w.Flush()
	},
}

// flagSuffix marks paused projects in list output.
func flagSuffix(p *project.Project) string {
	if p.Paused {
		return " (paused)"
	}
	return ""
}

// inactiveLabel renders the days-inactive column.
func inactiveLabel(p *project.Project, now time.Time) string {
	days := p.DaysInactive(now)
	if days == project.NeverActive {
		return "never active"
	}
	return fmt.Sprintf("%dd", days)
}

var pauseCmd = &cobra.Command{
	Use:   "pause <path>",
	Short: "Pause watching and nudging for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  setFlagCmd(func(p *project.Project) { p.Paused = true }, "paused"),
}

var resumeCmd = &cobra.Command{
	Use:   "resume <path>",
	Short: "Resume watching and nudging for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  setFlagCmd(func(p *project.Project) { p.Paused = false }, "resumed"),
}

var completeCmd = &cobra.Command{
	Use:   "complete <path>",
	Short: "Mark a project completed (momentum pinned at 100)",
	Args:  cobra.ExactArgs(1),
	RunE:  setFlagCmd(func(p *project.Project) { p.Completed = true }, "completed"),
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <path>",
	Short: "Reopen a completed project",
	Args:  cobra.ExactArgs(1),
	RunE:  setFlagCmd(func(p *project.Project) { p.Completed = false }, "reopened"),
}

var removeCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Stop tracking a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		_, db, err := openDeps()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.DeleteProject(path); err != nil {
			return err
		}
		fmt.Printf("removed %s\n", path)
		return nil
	},
}

// setFlagCmd builds a RunE that loads a project, applies mutate, and saves.
func setFlagCmd(mutate func(*project.Project), verb string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		_, db, err := openDeps()
		if err != nil {
			return err
		}
		defer db.Close()

		p, err := db.GetProject(path)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("not tracking %s", path)
		}
		mutate(p)
		if err := db.SaveProject(p); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", verb, path)
		return nil
	}
}

// openDeps loads the config and opens the project database.
func openDeps() (*config.Config, *store.DB, error) {
	paths := dataPaths()
	cfg, err := config.Load(paths.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := store.Open(paths.DB())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, db, nil
}

func init() {
	rootCmd.AddCommand(addCmd, listCmd, pauseCmd, resumeCmd, completeCmd, reopenCmd, removeCmd)
}
