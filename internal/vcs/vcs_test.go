// Tests for repository detection, discovery walks, and the bounded
// modification-time scan. Git subprocess probes are only exercised on
// their failure path so the suite does not depend on a git binary.
package vcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// mkdirs creates the given directories under root.
func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

// touch writes a file and pins its modification time.
func touch(t *testing.T, path string, at time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, at, at); err != nil {
		t.Fatal(err)
	}
}

// ///////////////////////////////////////////////
// Repository Detection
// ///////////////////////////////////////////////

func TestIsRepo(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "repo/.git", "plain")

	if !IsRepo(filepath.Join(root, "repo")) {
		t.Error("directory with .git not recognized as repo")
	}
	if IsRepo(filepath.Join(root, "plain")) {
		t.Error("plain directory recognized as repo")
	}
	if IsRepo(filepath.Join(root, "missing")) {
		t.Error("nonexistent directory recognized as repo")
	}
}

func TestProbeNonRepoIsUnknown(t *testing.T) {
	res := Probe(context.Background(), t.TempDir())
	if res.LastCommit != nil || res.CommitCount != 0 {
		t.Errorf("Probe on non-repo = %+v, want unknown result", res)
	}
}

// ///////////////////////////////////////////////
// Modification Scan
// ///////////////////////////////////////////////

func TestLatestModTime(t *testing.T) {
	dir := t.TempDir()
	mkdirs(t, dir, "src")

	old := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	touch(t, filepath.Join(dir, "README.md"), old)
	touch(t, filepath.Join(dir, "src", "main.go"), newer)

	got, ok := LatestModTime(dir, 0)
	if !ok {
		t.Fatal("LatestModTime found no files")
	}
	if !got.Equal(newer) {
		t.Errorf("LatestModTime = %v, want %v", got, newer)
	}
}

func TestLatestModTimeSkipsHidden(t *testing.T) {
	dir := t.TempDir()
	mkdirs(t, dir, ".git")

	visible := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	hidden := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	touch(t, filepath.Join(dir, "main.go"), visible)
	touch(t, filepath.Join(dir, ".git", "index"), hidden)
	touch(t, filepath.Join(dir, ".envrc"), hidden)

	got, ok := LatestModTime(dir, 0)
	if !ok {
		t.Fatal("LatestModTime found no files")
	}
	if !got.Equal(visible) {
		t.Errorf("LatestModTime = %v, want %v (hidden entries must not count)", got, visible)
	}
}

func TestLatestModTimeEmptyDir(t *testing.T) {
	if _, ok := LatestModTime(t.TempDir(), 0); ok {
		t.Error("LatestModTime reported ok for an empty directory")
	}
}

func TestLatestModTimeRespectsCap(t *testing.T) {
	dir := t.TempDir()

	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// Entry names sort aa..az; the walk visits them in order, so with a
	// tiny cap the late outlier at "zz" is never reached.
	for c := 'a'; c <= 'j'; c++ {
		touch(t, filepath.Join(dir, "a"+string(c)), early)
	}
	touch(t, filepath.Join(dir, "zz"), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	got, ok := LatestModTime(dir, 5)
	if !ok {
		t.Fatal("LatestModTime found no files")
	}
	if !got.Equal(early) {
		t.Errorf("LatestModTime = %v; a capped scan should stop before the newest file", got)
	}
}

// ///////////////////////////////////////////////
// Discovery
// ///////////////////////////////////////////////

func TestDiscoverFindsRepos(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root,
		"alpha/.git",
		"work/beta/.git",
		"work/notes", // no marker
	)

	got := Discover([]string{root}, 3, nil)
	want := []string{
		filepath.Join(root, "alpha"),
		filepath.Join(root, "work", "beta"),
	}
	if len(got) != len(want) {
		t.Fatalf("Discover = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Discover[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDiscoverDoesNotDescendIntoRepos(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "outer/.git", "outer/vendor/inner/.git")

	got := Discover([]string{root}, 5, nil)
	if len(got) != 1 || got[0] != filepath.Join(root, "outer") {
		t.Errorf("Discover = %v, want only the outer repo", got)
	}
}

func TestDiscoverRespectsDepth(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "a/b/c/deep/.git", "shallow/.git")

	got := Discover([]string{root}, 2, nil)
	if len(got) != 1 || got[0] != filepath.Join(root, "shallow") {
		t.Errorf("Discover = %v, want only the shallow repo", got)
	}
}

func TestDiscoverSkipsIgnoredAndHidden(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "keep/.git", "skipme/.git", ".hidden/repo/.git")

	ignored := func(dir string) bool {
		return filepath.Base(dir) == "skipme"
	}
	got := Discover([]string{root}, 3, ignored)
	if len(got) != 1 || got[0] != filepath.Join(root, "keep") {
		t.Errorf("Discover = %v, want only keep", got)
	}
}

func TestDiscoverDeduplicatesRoots(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "repo/.git")

	got := Discover([]string{root, root}, 3, nil)
	if len(got) != 1 {
		t.Errorf("Discover with duplicate roots = %v, want a single entry", got)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	got := Discover([]string{filepath.Join(t.TempDir(), "nope")}, 3, nil)
	if len(got) != 0 {
		t.Errorf("Discover on missing root = %v, want empty", got)
	}
}
