// ABOUTME: Discovers sample dive plan YAML files
// ABOUTME: Looks in samples/ under the base path or DECOPLAN_SAMPLES_PATH

package samples

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/arthurportas/tech-diving-app/cli/internal/diveplan"
)

// EnvVar overrides the samples directory lookup
const EnvVar = "DECOPLAN_SAMPLES_PATH"

// SampleFile represents a discovered sample plan
type SampleFile struct {
	Name  string // Filename (e.g., "reference-40m.yaml")
	Path  string // Full path to the file
	Title string // Plan name from the file, or the filename when unset

	// Summary is a one-line description such as "40m, 20 min, air" in the
	// plan's own units. Empty when the file does not parse.
	Summary string
}

// IsPlanFile reports whether name has a YAML plan extension
func IsPlanFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Discover lists the plan files in dir, sorted by filename. A missing
// directory is an empty list. Files that fail to parse are still listed
// under their filename; loading them reports the error.
func Discover(dir string) ([]SampleFile, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []SampleFile{}, nil
	}
	if err != nil {
		return nil, err
	}

	files := make([]SampleFile, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() && IsPlanFile(entry.Name()) {
			files = append(files, describe(dir, entry.Name()))
		}
	}

	slices.SortFunc(files, func(a, b SampleFile) int { return strings.Compare(a.Name, b.Name) })
	return files, nil
}

func describe(dir, name string) SampleFile {
	sample := SampleFile{Name: name, Path: filepath.Join(dir, name), Title: name}

	plan, err := diveplan.Load(sample.Path)
	if err != nil {
		return sample
	}
	if plan.Name != "" {
		sample.Title = plan.Name
	}
	if sys, err := plan.System(); err == nil {
		sample.Summary = fmt.Sprintf("%s, %g min, %s", sys.Depth(sys.ToMetres(plan.Depth)), plan.BottomTime, plan.BottomGas)
	}
	return sample
}

// FindSamplesDir returns the first existing directory of $DECOPLAN_SAMPLES_PATH
// and basePath/samples, or "" when neither exists.
func FindSamplesDir(basePath string) string {
	for _, dir := range []string{os.Getenv(EnvVar), filepath.Join(basePath, "samples")} {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
