package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	return dir
}

func writeConfig(t *testing.T, data string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

// failingCommandConfig is a command engine configuration that fails the files with `bad` in their name.
const failingCommandConfig = `engine: command
command:
  name: sh
  args: ["-c", "case \"$UNBLOCK_FILE\" in *bad*) echo nope >&2; exit 1;; esac"]
`

func TestRun(t *testing.T) {
	dir := newTestTree(t, "a.txt", "dirX/b.txt", "dirX/bad.txt")
	missingConfig := filepath.Join(t.TempDir(), "missing.yaml")

	tests := map[string]struct {
		unixOnly bool
		config   string
		args     []string
		expErr   string
		expOut   []string
	}{
		"Running with the fake engine should process all the files": {
			args: []string{"--engine", "fake", "run", dir},
			expOut: []string{
				"Processed: " + filepath.Join(dir, "a.txt"),
				"Processed: " + filepath.Join(dir, "dirX", "bad.txt"),
				"Completed all files!",
				"State:      completed",
				"Files:      3/3",
			},
		},

		"Running on an empty directory should not fail": {
			args:   []string{"--engine", "fake", "run", t.TempDir()},
			expOut: []string{"No files to unblock.", "Files:      0/0"},
		},

		"Running with failing files should fail after processing all of them": {
			unixOnly: true,
			config:   failingCommandConfig,
			args:     []string{"run", dir},
			expErr:   "1 of 3 files could not be unblocked",
			expOut: []string{
				"Processed: " + filepath.Join(dir, "a.txt"),
				"Error: " + filepath.Join(dir, "dirX", "bad.txt") + " -> sh exited with code 1: nope",
				"Failed:     1",
			},
		},

		"Dry run should not use the configured engine": {
			unixOnly: true,
			config:   failingCommandConfig,
			args:     []string{"run", "--dry-run", dir},
			expOut:   []string{"Failed:     0"},
		},

		"Listing should print the files in order": {
			args:   []string{"ls", dir},
			expOut: []string{"1  " + filepath.Join(dir, "a.txt"), "2  " + filepath.Join(dir, "dirX", "b.txt"), "3  " + filepath.Join(dir, "dirX", "bad.txt")},
		},

		"Listing nothing should print the no files message": {
			args:   []string{"ls", filepath.Join(dir, "missing")},
			expOut: []string{"No files to unblock."},
		},

		"Doctor should check the configured engine": {
			args:   []string{"--engine", "fake", "doctor"},
			expOut: []string{"Checking fake engine...", "All checks passed!"},
		},

		"Doctor should fail when the configured engine fails the checks": {
			config: "engine: command\ncommand:\n  name: unblock-missing-binary\n",
			args:   []string{"doctor"},
			expErr: "preflight checks failed for engines: [command]",
			expOut: []string{"Checking command engine...", "1 error(s)"},
		},

		"Doctor should pass when the configured engine only has warnings": {
			unixOnly: true,
			config:   "engine: command\ncommand:\n  name: sh\n  args: [\"-c\", \"true\"]\n",
			args:     []string{"doctor"},
			expOut:   []string{"Checking command engine...", "1 warning(s)"},
		},

		"Version should print the version": {
			args:   []string{"version"},
			expOut: []string{"dev"},
		},

		"An invalid configuration should fail": {
			config: "engine: magic\n",
			args:   []string{"ls", dir},
			expErr: "invalid configuration",
		},

		"An unknown command should fail": {
			args:   []string{"unblock-everything"},
			expErr: "invalid command configuration",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if test.unixOnly && runtime.GOOS == "windows" {
				t.Skip("unix only")
			}

			configPath := missingConfig
			if test.config != "" {
				configPath = writeConfig(t, test.config)
			}

			var stdout, stderr bytes.Buffer
			args := append([]string{"unblock", "--no-log", "--config", configPath}, test.args...)
			err := Run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)

			if test.expErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.expErr)
			} else {
				require.NoError(t, err)
			}

			for _, exp := range test.expOut {
				assert.Contains(t, stdout.String(), exp)
			}
		})
	}
}

func TestRunJSONOutput(t *testing.T) {
	dir := newTestTree(t, "a.txt", "b.txt")
	missingConfig := filepath.Join(t.TempDir(), "missing.yaml")

	var stdout, stderr bytes.Buffer
	args := []string{"unblock", "--no-log", "--config", missingConfig, "--engine", "fake", "run", "--format", "json", dir}
	err := Run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	// 2 files with status and progress, completed status and finished.
	require.Len(t, lines, 6)

	var last map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &last))
	assert.Equal(t, "finished", last["kind"])
	summary, ok := last["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "completed", summary["state"])
	assert.Equal(t, float64(2), summary["succeeded"])

	var prev map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-3]), &prev))
	assert.Equal(t, "progress", prev["kind"])
	assert.Equal(t, float64(100), prev["percent"])
}
