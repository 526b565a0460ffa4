//go:build darwin || linux

package native

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/slok/unblock/internal/model"
)

func removeMarker(path string) (bool, error) {
	removed := false
	for _, attr := range markerAttrs {
		err := unix.Removexattr(path, attr)
		switch {
		case err == nil:
			removed = true
		case isMissingAttr(err), errors.Is(err, unix.ENOTSUP):
			// Nothing to remove.
		default:
			return removed, fmt.Errorf("could not remove %s extended attribute: %w", attr, err)
		}
	}

	return removed, nil
}

func checkPlatform() model.CheckResult {
	return model.CheckResult{
		ID:      "platform_supported",
		Message: fmt.Sprintf("Extended attributes %s are supported", strings.Join(markerAttrs, ", ")),
		Status:  model.CheckStatusOK,
	}
}
