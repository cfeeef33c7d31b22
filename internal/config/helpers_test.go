// ABOUTME: Test helpers for config tests
// ABOUTME: Provides utilities for environment variable management

package config

import (
	"os"
	"strings"
	"testing"
)

// withCleanEnv clears the environment, points XDG_CONFIG_HOME at a temp dir
// and sets extra vars. The returned cleanup restores the original env.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    t.Cleanup(withCleanEnv(t, map[string]string{
//	        "LOG_LEVEL": "debug",
//	    }))
//	}
func withCleanEnv(t *testing.T, extra map[string]string) func() {
	t.Helper()

	originalEnv := os.Environ()
	os.Clearenv()

	os.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for key, value := range extra {
		os.Setenv(key, value)
	}

	return func() {
		os.Clearenv()
		for _, kv := range originalEnv {
			if key, value, ok := strings.Cut(kv, "="); ok {
				os.Setenv(key, value)
			}
		}
	}
}
