package app

import (
	"errors"
	"io/fs"

	"github.com/francoishill/grunt-process-includes/internal/domain"
	"github.com/francoishill/grunt-process-includes/internal/manifest"
)

// Exit codes of the CLI
const (
	ExitSuccess           = 0
	ExitGeneralError      = 1
	ExitConfigError       = 2
	ExitPathMismatch      = 3
	ExitFileSystemError   = 4
	ExitInvariantViolated = 5
)

// ExitCode maps an error returned by Run to a process exit code
func ExitCode(err error) int {
	var pathErr *fs.PathError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, domain.ErrConfiguration):
		return ExitConfigError
	case errors.Is(err, domain.ErrPathMismatch):
		return ExitPathMismatch
	case errors.Is(err, domain.ErrInvariantViolation):
		return ExitInvariantViolated
	case errors.Is(err, manifest.ErrFileNotFound),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.As(err, &pathErr):
		return ExitFileSystemError
	default:
		return ExitGeneralError
	}
}

// ExitCodeString returns a human-readable description of the exit code
func ExitCodeString(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General error"
	case ExitConfigError:
		return "Configuration error"
	case ExitPathMismatch:
		return "Path mismatch"
	case ExitFileSystemError:
		return "File system error"
	case ExitInvariantViolated:
		return "Invariant violation"
	default:
		return "Unknown error"
	}
}
