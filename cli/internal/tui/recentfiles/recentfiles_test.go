// ABOUTME: Tests for recent files management
// ABOUTME: Validates ordering, the size cap, stale entries, and corrupt lists

package recentfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

// planFiles creates n empty plan files and returns their paths
func planFiles(t *testing.T, dir string, n int) []string {
	t.Helper()
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("plan%d.yaml", i+1))
		if err := os.WriteFile(paths[i], []byte("depth: 40\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

func TestLoadEmpty(t *testing.T) {
	files, err := New(t.TempDir()).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected empty list, got %v", files)
	}
}

func TestAddMovesToFront(t *testing.T) {
	dir := t.TempDir()
	paths := planFiles(t, dir, 2)
	rf := New(dir)

	for _, p := range []string{paths[0], paths[1], paths[0]} {
		if err := rf.Add(p); err != nil {
			t.Fatalf("Add(%s) error: %v", p, err)
		}
	}

	files, _ := New(dir).Load()
	if !slices.Equal(files, []string{paths[0], paths[1]}) {
		t.Errorf("expected re-added file first without duplicates, got %v", files)
	}
}

func TestAddRecordsOpenTime(t *testing.T) {
	dir := t.TempDir()
	paths := planFiles(t, dir, 1)
	opened := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	rf := New(dir)
	rf.now = func() time.Time { return opened }
	if err := rf.Add(paths[0]); err != nil {
		t.Fatal(err)
	}

	entries := New(dir).Entries()
	if len(entries) != 1 || !entries[0].Opened.Equal(opened) {
		t.Errorf("expected one entry opened at %v, got %+v", opened, entries)
	}
}

func TestMaxLimit(t *testing.T) {
	dir := t.TempDir()
	paths := planFiles(t, dir, MaxRecentFiles+2)
	rf := New(dir)
	for _, p := range paths {
		rf.Add(p)
	}

	files, _ := rf.Load()
	if len(files) != MaxRecentFiles {
		t.Fatalf("expected %d files max, got %d", MaxRecentFiles, len(files))
	}
	if files[0] != paths[len(paths)-1] {
		t.Errorf("expected newest file first, got %s", files[0])
	}
}

func TestLoadDropsStaleFiles(t *testing.T) {
	dir := t.TempDir()
	paths := planFiles(t, dir, 1)
	rf := New(dir)
	rf.Add(paths[0])
	rf.Add(filepath.Join(dir, "gone.yaml"))

	files, err := rf.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !slices.Equal(files, paths) {
		t.Errorf("expected only the existing file, got %v", files)
	}
}

func TestAddCreatesConfigDir(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "decoplan")
	if err := New(configDir).Add("/path/to/plan.yaml"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(configDir, fileName)); err != nil {
		t.Errorf("expected list file to be written: %v", err)
	}
}

func TestDefaultConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", "decoplan") {
		t.Errorf("expected XDG based dir, got %s", got)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	paths := planFiles(t, dir, 2)
	rf := New(dir)
	rf.Add(paths[0])
	rf.Add(paths[1])

	if err := rf.Remove(paths[1]); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}

	files, _ := New(dir).Load()
	if !slices.Equal(files, paths[:1]) {
		t.Errorf("expected only %s after remove, got %v", paths[0], files)
	}
}

func TestLoadCorruptList(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, fileName), []byte("plans: [\n"), 0o644)

	files, err := New(dir).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected empty list for corrupt file, got %v", files)
	}
}
