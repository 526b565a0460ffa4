package command

import "github.com/slok/unblock/internal/model"

// DefaultCommand returns the platform command.
func DefaultCommand() (model.CommandConfig, bool) {
	return model.CommandConfig{
		Name: "xattr",
		Args: []string{"-d", "com.apple.quarantine", PathPlaceholder},
	}, true
}
