package command

import "github.com/slok/unblock/internal/model"

// DefaultCommand returns the platform command, the path is passed through the
// environment so PowerShell doesn't need to parse it.
func DefaultCommand() (model.CommandConfig, bool) {
	return model.CommandConfig{
		Name: "powershell",
		Args: []string{"-NoProfile", "-NonInteractive", "-Command", "Unblock-File -LiteralPath $env:" + PathEnvVar},
	}, true
}
