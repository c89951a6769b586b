// ABOUTME: Tracks recently opened dive plan files for the TUI file picker
// ABOUTME: Persists paths and open times as YAML in the decoplan config directory

package recentfiles

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxRecentFiles caps the list; the oldest entries fall off first
const MaxRecentFiles = 5

const fileName = "recent.yaml"

// Entry is one remembered plan file
type Entry struct {
	Path   string    `yaml:"path"`
	Opened time.Time `yaml:"opened"`
}

type document struct {
	Plans []Entry `yaml:"plans"`
}

// RecentFiles is the most-recent-first list of opened plan files
type RecentFiles struct {
	configDir string
	entries   []Entry
	loaded    bool
	now       func() time.Time
}

// New returns a list stored under configDir. Nothing is read until first use.
func New(configDir string) *RecentFiles {
	return &RecentFiles{configDir: configDir, now: time.Now}
}

// DefaultConfigDir is $XDG_CONFIG_HOME/decoplan, falling back to ~/.config/decoplan
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "decoplan")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "decoplan")
}

func (rf *RecentFiles) path() string {
	return filepath.Join(rf.configDir, fileName)
}

// Load reads the list from disk and returns the paths that still exist.
// A missing or unreadable-as-YAML list is treated as empty.
func (rf *RecentFiles) Load() ([]string, error) {
	rf.entries = nil
	rf.loaded = true

	data, err := os.ReadFile(rf.path())
	if errors.Is(err, fs.ErrNotExist) {
		return rf.Paths(), nil
	}
	if err != nil {
		return nil, err
	}

	var doc document
	if yaml.Unmarshal(data, &doc) != nil {
		return rf.Paths(), nil
	}

	rf.entries = slices.DeleteFunc(doc.Plans, func(e Entry) bool {
		_, err := os.Stat(e.Path)
		return e.Path == "" || err != nil
	})
	return rf.Paths(), nil
}

// Paths lists the remembered files, most recent first
func (rf *RecentFiles) Paths() []string {
	paths := make([]string, len(rf.entries))
	for i, e := range rf.entries {
		paths[i] = e.Path
	}
	return paths
}

// Entries returns a copy of the list with open times
func (rf *RecentFiles) Entries() []Entry {
	rf.ensureLoaded()
	return slices.Clone(rf.entries)
}

// Add records path as just opened, moving it to the front
func (rf *RecentFiles) Add(path string) error {
	rf.ensureLoaded()
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	rf.drop(path)
	rf.entries = slices.Insert(rf.entries, 0, Entry{Path: path, Opened: rf.now().UTC()})
	return rf.save()
}

// Remove forgets path
func (rf *RecentFiles) Remove(path string) error {
	rf.ensureLoaded()
	rf.drop(path)
	return rf.save()
}

func (rf *RecentFiles) drop(path string) {
	rf.entries = slices.DeleteFunc(rf.entries, func(e Entry) bool { return e.Path == path })
}

func (rf *RecentFiles) ensureLoaded() {
	if !rf.loaded {
		_, _ = rf.Load()
	}
}

func (rf *RecentFiles) save() error {
	if len(rf.entries) > MaxRecentFiles {
		rf.entries = rf.entries[:MaxRecentFiles]
	}
	if err := os.MkdirAll(rf.configDir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(document{Plans: rf.entries})
	if err != nil {
		return err
	}
	return os.WriteFile(rf.path(), data, 0o644)
}
