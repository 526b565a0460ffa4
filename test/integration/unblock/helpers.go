package unblock

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		return fmt.Errorf("binary is required (UNBLOCK_INTEGRATION_BINARY)")
	}

	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("UNBLOCK_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}

	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("unblock binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "UNBLOCK_INTEGRATION"
		envBinary     = "UNBLOCK_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		Binary: os.Getenv(envBinary),
	}

	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// newTree creates the files on a temporary directory and returns the directory.
func newTree(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("downloaded"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}
