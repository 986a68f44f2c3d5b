package vcs

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// DefaultScanCap is the default number of directory entries a single
// [LatestModTime] scan may visit. Bursty trees (node_modules, build output)
// are deliberately truncated; the scan answers "roughly when was this last
// touched", not "what changed".
const DefaultScanCap = 1000

// LatestModTime walks dir and returns the newest file modification time
// found, visiting at most cap entries. Hidden entries and nested
// version-control metadata directories are skipped. ok is false when no
// regular file was seen before the walk ended.
func LatestModTime(dir string, cap int) (latest time.Time, ok bool) {
	if cap <= 0 {
		cap = DefaultScanCap
	}
	visited := 0

	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Permission errors and races are expected; skip the subtree.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path != dir && skipName(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		visited++
		if visited > cap {
			return fs.SkipAll
		}

		if !d.IsDir() {
			info, infoErr := d.Info()
			if infoErr != nil {
				return nil
			}
			if mt := info.ModTime(); !ok || mt.After(latest) {
				latest, ok = mt, true
			}
		}
		return nil
	})

	return latest, ok
}

// skipName reports whether a directory entry should be excluded from the
// scan: dotfiles (which covers .git and friends) and bare VCS metadata.
func skipName(name string) bool {
	return strings.HasPrefix(name, ".")
}
