package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"tools.zach/dev/tend/internal/config"
	"tools.zach/dev/tend/internal/insight"
	"tools.zach/dev/tend/internal/logger"
	"tools.zach/dev/tend/internal/monitor"
	"tools.zach/dev/tend/internal/notify"
	"tools.zach/dev/tend/internal/nudge"
	"tools.zach/dev/tend/internal/project"
	"tools.zach/dev/tend/internal/store"
	"tools.zach/dev/tend/internal/watch"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the tend daemon in the foreground",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// ///////////////////////////////////////////////
// Daemon
// ///////////////////////////////////////////////

// runDaemon is the daemon entry point: single-instance check, config,
// logging, store, monitor, scheduler, then block until a shutdown signal.
func runDaemon() error {
	paths := dataPaths()

	if err := os.MkdirAll(paths.Root, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if alive, pid := checkStalePID(paths); alive {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}

	if err := config.WriteDefault(paths.Root); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write default config: %v\n", err)
	}
	cfg, err := config.Load(paths.Root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logLevel := logger.ParseLevel(cfg.Log.Level)
	log, logCloser, err := logger.NewLogger(paths.Log(), logLevel, cfg.Log.MaxSizeMB)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(log)

	ver := resolveVersion()
	slog.Info("tend starting", "version", ver, "data_dir", paths.Root)

	token := pidToken()
	pidFile, err := writePID(paths, token)
	if err != nil {
		slog.Error("failed to write PID file", "error", err)
		return err
	}
	defer removePID(paths, token, pidFile)

	db, err := store.Open(paths.DB())
	if err != nil {
		slog.Error("failed to open project database", "error", err)
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mon := monitor.New(db, watch.NewFSBackend(), monitor.Options{
		ScanCap: cfg.Monitor.ScanCap,
	})
	if err := mon.Start(ctx); err != nil {
		slog.Error("failed to start monitor", "error", err)
		return err
	}
	defer mon.Stop()

	if len(cfg.Monitor.Roots) > 0 {
		added := mon.Discover(ctx, cfg.Monitor.Roots, cfg.Monitor.DiscoveryDepth, cfg.IsIgnored)
		slog.Info("discovery complete", "new_projects", added)
	}

	if cfg.Nudge.Enabled {
		notifier, err := notify.New(cfg.Notify)
		if err != nil {
			slog.Error("failed to create notifier", "error", err)
			return err
		}

		var insights insight.Client
		if cfg.Insight.Enabled {
			insights = insight.NewCLI(cfg.Insight.Command,
				time.Duration(cfg.Insight.TimeoutSeconds)*time.Second)
		}

		scheduler := nudge.NewScheduler(mon,
			&configSettings{dataDir: paths.Root, fallback: settingsFrom(cfg)},
			nudge.NewDispatcher(notifier), insights)
		go scheduler.Run(ctx)
	} else {
		slog.Info("nudges disabled by config")
	}

	sig := <-signalChannel()
	slog.Info("received shutdown signal", "signal", sig.String())
	return nil
}

// ///////////////////////////////////////////////
// Settings Source
// ///////////////////////////////////////////////

// settingsFrom maps the nudge section of a loaded config onto scheduler
// settings.
func settingsFrom(cfg *config.Config) nudge.Settings {
	return nudge.Settings{
		QuietHoursStart: cfg.Nudge.QuietHoursStart,
		QuietHoursEnd:   cfg.Nudge.QuietHoursEnd,
		FrequencyHours:  cfg.Nudge.FrequencyHours,
		Style:           project.Style(cfg.Nudge.Style),
	}
}

// configSettings re-reads the config file at each scheduler wake so edits
// to quiet hours, frequency, or style take effect without a daemon restart.
// A failed reload falls back to the values from startup.
type configSettings struct {
	dataDir  string
	fallback nudge.Settings
}

// Current loads the config and returns its nudge settings.
func (s *configSettings) Current() nudge.Settings {
	cfg, err := config.Load(s.dataDir)
	if err != nil {
		slog.Warn("config reload failed, using previous settings", "error", err)
		return s.fallback
	}
	current := settingsFrom(cfg)
	s.fallback = current
	return current
}
