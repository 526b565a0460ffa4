package testutils

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Result is the outcome of an unblock binary execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunUnblock executes the unblock binary with the given arguments. The
// process env is inherited and extended with env, later values win. Logs are
// disabled unless withLogs is set.
//
// A non zero exit code is not an error, it's reported on the result.
func RunUnblock(ctx context.Context, binary string, env []string, withLogs bool, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.Env = append(os.Environ(), env...)
	if !withLogs {
		cmd.Env = append(cmd.Env, "UNBLOCK_NO_LOG=true")
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case err != nil:
		return res, err
	}

	return res, nil
}
