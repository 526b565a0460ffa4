package unblock

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/slok/unblock/test/integration/testutils"
)

const originAttr = "user.xdg.origin.url"

func TestIntegrationRunNativeRemovesMarks(t *testing.T) {
	config := NewConfig(t)
	dir := newTree(t, "a.zip", "dirX/b.exe")
	cfgPath := filepath.Join(t.TempDir(), "missing.yaml")

	files := []string{filepath.Join(dir, "a.zip"), filepath.Join(dir, "dirX", "b.exe")}
	for _, f := range files {
		err := unix.Setxattr(f, originAttr, []byte("https://example.com/file"), 0)
		if errors.Is(err, unix.ENOTSUP) {
			t.Skip("user extended attributes not supported on the test filesystem")
		}
		require.NoError(t, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	args := []string{"--config", cfgPath, "--engine", "native", "run", dir}
	res, err := testutils.RunUnblock(ctx, config.Binary, nil, false, args...)
	require.NoError(t, err)
	require.Zero(t, res.ExitCode, res.Stderr)
	assert.Contains(t, res.Stdout, "Completed all files!")

	for _, f := range files {
		_, err := unix.Getxattr(f, originAttr, nil)
		assert.ErrorIs(t, err, unix.ENODATA, "mark should be removed from %s", f)
	}
}
