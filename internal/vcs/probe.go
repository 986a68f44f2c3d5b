// Package vcs probes a project directory's activity from two independent
// sources: its git history (via read-only git subprocess queries) and the
// newest file modification time under the directory (via a bounded scan).
//
// Probe failures are never fatal. A missing git binary, a non-repository
// directory, or malformed output all yield an unknown result so the caller
// treats the probe as "no new information".
package vcs

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tools.zach/dev/tend/internal/paths"
)

// ProbeTimeout bounds each git subprocess call so a hung git (e.g. a stuck
// credential helper on a network remote) cannot stall a project's refresh
// indefinitely.
const ProbeTimeout = 10 * time.Second

// ///////////////////////////////////////////////
// Result
// ///////////////////////////////////////////////

// Result holds the version-control facts for one directory. A nil
// LastCommit with zero CommitCount means the probe learned nothing.
type Result struct {
	// LastCommit is the committer timestamp of the newest commit, or nil
	// when unknown.
	LastCommit *time.Time
	// CommitCount is the number of commits reachable from HEAD.
	CommitCount int
}

// ///////////////////////////////////////////////
// Probing
// ///////////////////////////////////////////////

// IsRepo reports whether dir contains a version-control marker at its root.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, paths.VCSMarker))
	return err == nil
}

// Probe queries dir's git history for the last commit timestamp and commit
// count. Subprocess failures are logged at debug level and produce an
// unknown [Result] rather than an error.
func Probe(ctx context.Context, dir string) Result {
	var res Result

	out, err := gitOutput(ctx, dir, "log", "-1", "--format=%ct")
	if err != nil {
		slog.Debug("git log probe failed", "dir", dir, "error", err)
		return res
	}
	secs, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		slog.Debug("unparseable commit timestamp", "dir", dir, "output", out)
		return res
	}
	t := time.Unix(secs, 0)
	res.LastCommit = &t

	out, err = gitOutput(ctx, dir, "rev-list", "--count", "HEAD")
	if err != nil {
		slog.Debug("git rev-list probe failed", "dir", dir, "error", err)
		return res
	}
	if n, err := strconv.Atoi(out); err == nil {
		res.CommitCount = n
	}
	return res
}

// gitOutput runs a git command in dir with a timeout and returns trimmed
// stdout.
func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
