package vcs

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultDiscoveryDepth bounds how far below each configured root the
// discovery walk descends looking for repositories.
const DefaultDiscoveryDepth = 3

// Discover scans the given root directories for version-controlled project
// directories, descending at most maxDepth levels below each root. A
// directory containing a VCS marker is reported and not descended into
// (nested repositories belong to their parent project). Hidden directories
// are skipped, as is any path for which ignored returns true. The result
// is sorted and deduplicated.
func Discover(roots []string, maxDepth int, ignored func(string) bool) []string {
	if maxDepth <= 0 {
		maxDepth = DefaultDiscoveryDepth
	}

	seen := make(map[string]bool)
	for _, root := range roots {
		root = filepath.Clean(root)
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			slog.Debug("discovery root unavailable", "root", root, "error", err)
			continue
		}
		discoverDir(root, root, maxDepth, ignored, seen)
	}

	found := make([]string, 0, len(seen))
	for p := range seen {
		found = append(found, p)
	}
	sort.Strings(found)
	return found
}

// discoverDir recursively examines dir, recording repository roots in seen.
func discoverDir(root, dir string, maxDepth int, ignored func(string) bool, seen map[string]bool) {
	if ignored != nil && ignored(dir) {
		return
	}
	if IsRepo(dir) {
		seen[dir] = true
		return
	}
	if depthBelow(root, dir) >= maxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Debug("discovery read failed", "dir", dir, "error", err)
		return
	}
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		discoverDir(root, filepath.Join(dir, e.Name()), maxDepth, ignored, seen)
	}
}

// depthBelow returns how many levels dir sits below root.
func depthBelow(root, dir string) int {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return 0
	}
	return len(strings.Split(rel, string(filepath.Separator)))
}
