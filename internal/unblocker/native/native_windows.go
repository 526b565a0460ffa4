package native

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/slok/unblock/internal/model"
)

const zoneIdentifierStream = ":Zone.Identifier"

func removeMarker(path string) (bool, error) {
	// A missing stream and a missing file look the same when removing the stream.
	if _, err := os.Stat(path); err != nil {
		return false, err
	}

	err := os.Remove(path + zoneIdentifierStream)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("could not remove %s stream: %w", zoneIdentifierStream, err)
	}

	return true, nil
}

func checkPlatform() model.CheckResult {
	return model.CheckResult{
		ID:      "platform_supported",
		Message: "Zone.Identifier alternate data streams are supported",
		Status:  model.CheckStatusOK,
	}
}
