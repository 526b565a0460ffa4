package model

// CheckStatus is the outcome of a doctor check.
type CheckStatus string

const (
	CheckStatusOK      CheckStatus = "ok"
	CheckStatusWarning CheckStatus = "warning"
	// CheckStatusError means the engine can't unblock files until it's fixed.
	CheckStatusError CheckStatus = "error"
)

// CheckResult is the result of checking a single engine requirement,
// like the unblock command being on PATH or the platform having support
// for the marker the engine removes.
type CheckResult struct {
	// ID identifies the requirement (e.g. "command_available", "platform_supported").
	ID      string
	Message string
	Status  CheckStatus
}

// HasErrors returns true when the engine failed any check.
func HasErrors(results []CheckResult) bool {
	return hasStatus(results, CheckStatusError)
}

// HasWarnings returns true when any check passed with a warning.
func HasWarnings(results []CheckResult) bool {
	return hasStatus(results, CheckStatusWarning)
}

func hasStatus(results []CheckResult, status CheckStatus) bool {
	for _, r := range results {
		if r.Status == status {
			return true
		}
	}
	return false
}

// CountByStatus returns how many results there are of each status.
func CountByStatus(results []CheckResult) (ok, warnings, errors int) {
	for _, r := range results {
		switch r.Status {
		case CheckStatusOK:
			ok++
		case CheckStatusWarning:
			warnings++
		case CheckStatusError:
			errors++
		}
	}
	return ok, warnings, errors
}
