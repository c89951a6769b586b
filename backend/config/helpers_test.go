// ABOUTME: Environment isolation for config tests
// ABOUTME: Gives each test an empty environment and no .env file

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// cleanEnv empties the process environment for the duration of t, then
// sets extra. ENV_FILE points at a missing file so a developer's .env never
// leaks into a test. The original environment comes back on cleanup.
func cleanEnv(t *testing.T, extra map[string]string) {
	t.Helper()

	saved := os.Environ()
	t.Cleanup(func() {
		os.Clearenv()
		for _, kv := range saved {
			if k, v, ok := strings.Cut(kv, "="); ok {
				os.Setenv(k, v)
			}
		}
	})

	os.Clearenv()
	os.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for k, v := range extra {
		os.Setenv(k, v)
	}
}
