package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"
	"tools.zach/dev/tend/internal/paths"
)

// ///////////////////////////////////////////////
// Version
// ///////////////////////////////////////////////

// version is set at build time via ldflags (-X main.version=...). When not
// set, resolveVersion reads the VCS info that Go embeds automatically, so
// dev builds get a useful version string without needing git at runtime.
var version = "dev"

// resolveVersion returns the build version string. If [version] was set via
// ldflags at build time it is returned as-is; otherwise VCS revision and
// dirty state embedded by the Go toolchain are used to construct a
// "dev+<hash>" tag.
func resolveVersion() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return version
	}
	hash := revision[:min(7, len(revision))]
	if dirty {
		return "dev+" + hash + ".dirty"
	}
	return "dev+" + hash
}

// ///////////////////////////////////////////////
// Root Command
// ///////////////////////////////////////////////

// dataDirFlag is the --data-dir persistent flag value.
var dataDirFlag string

// defaultDataDir returns the platform default directory for tend data,
// typically ~/.tend. Falls back to ./.tend if the home directory cannot be
// determined.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", paths.DataDirRel)
	}
	return filepath.Join(home, paths.DataDirRel)
}

// dataPaths returns the path helper for the selected data directory.
func dataPaths() DataPaths {
	return DataPaths{Root: dataDirFlag}
}

var rootCmd = &cobra.Command{
	Use:           paths.BinaryName,
	Short:         "tend watches your project directories and nudges you about the stale ones",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tend version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(resolveVersion())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", defaultDataDir(),
		"Data directory for config, database, and logs")
	rootCmd.AddCommand(versionCmd)
}
