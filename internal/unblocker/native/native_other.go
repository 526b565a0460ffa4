//go:build !windows && !darwin && !linux

package native

import (
	"fmt"
	"runtime"

	"github.com/slok/unblock/internal/model"
)

func removeMarker(path string) (bool, error) {
	return false, fmt.Errorf("native unblock on %s: %w", runtime.GOOS, model.ErrNotSupported)
}

func checkPlatform() model.CheckResult {
	return model.CheckResult{
		ID:      "platform_supported",
		Message: fmt.Sprintf("Native unblock is not supported on %s, use the command engine", runtime.GOOS),
		Status:  model.CheckStatusError,
	}
}
