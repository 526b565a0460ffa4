package unblocker

import (
	"context"

	"github.com/slok/unblock/internal/model"
)

// Unblocker knows how to remove the "downloaded from the internet" marker of a file.
type Unblocker interface {
	// Check performs preflight checks and returns the results.
	Check(ctx context.Context) []model.CheckResult
	// Unblock removes the marker of a single file. It's synchronous and may be slow,
	// a returned error means the file could not be unblocked.
	Unblock(ctx context.Context, path string) error
}

//go:generate mockery --case underscore --output unblockermock --outpkg unblockermock --name Unblocker
