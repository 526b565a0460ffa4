//go:build !windows && !darwin

package command

import "github.com/slok/unblock/internal/model"

// DefaultCommand returns false, there is no standard unblock command on this platform.
func DefaultCommand() (model.CommandConfig, bool) {
	return model.CommandConfig{}, false
}
