package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrConfiguration indicates a required option is missing or invalid
	ErrConfiguration = errors.New("configuration error")

	// ErrPathMismatch indicates a path does not start with its declared base directory
	ErrPathMismatch = errors.New("path mismatch")

	// ErrInvariantViolation indicates the expanded manifest is internally inconsistent
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrUnknownTask indicates the requested task is not one of the supported tasks
	ErrUnknownTask = errors.New("unknown task")

	// ErrCacheMiss indicates a fingerprint cache miss
	ErrCacheMiss = errors.New("cache miss")
)

// ConfigurationError represents a missing or invalid configuration option
type ConfigurationError struct {
	Key     string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("configuration error for %s: %s", e.Key, e.Message)
	}
	return fmt.Sprintf("configuration error: please specify %s", e.Key)
}

// Is reports ErrConfiguration so callers can match any configuration failure
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewMissingKeyError creates a ConfigurationError for an absent required key
func NewMissingKeyError(key string) *ConfigurationError {
	return &ConfigurationError{Key: key}
}

// NewConfigurationError creates a ConfigurationError with a custom message
func NewConfigurationError(key, message string, err error) *ConfigurationError {
	return &ConfigurationError{
		Key:     key,
		Message: message,
		Err:     err,
	}
}

// PathMismatchError is returned when a file path does not live under the
// base directory it was declared against
type PathMismatchError struct {
	Path    string
	BaseDir string
}

func (e *PathMismatchError) Error() string {
	return fmt.Sprintf("unexpected file path for file: %s, expecting to start with: %s", e.Path, e.BaseDir)
}

func (e *PathMismatchError) Is(target error) bool {
	return target == ErrPathMismatch
}

// NewPathMismatchError creates a new PathMismatchError
func NewPathMismatchError(path, baseDir string) *PathMismatchError {
	return &PathMismatchError{
		Path:    path,
		BaseDir: baseDir,
	}
}

// InvariantViolationError signals a bug in expansion rather than bad input
type InvariantViolationError struct {
	Message string
	Entry   *ExpandedFileEntry
}

func (e *InvariantViolationError) Error() string {
	if e.Entry == nil {
		return "invariant violation: " + e.Message
	}
	data, err := json.Marshal(e.Entry)
	if err != nil {
		return fmt.Sprintf("invariant violation: %s (source %s)", e.Message, e.Entry.SourceFile)
	}
	return fmt.Sprintf("invariant violation: %s for entry: %s", e.Message, data)
}

func (e *InvariantViolationError) Is(target error) bool {
	return target == ErrInvariantViolation
}

// NewInvariantViolationError creates a new InvariantViolationError
func NewInvariantViolationError(message string, entry *ExpandedFileEntry) *InvariantViolationError {
	return &InvariantViolationError{
		Message: message,
		Entry:   entry,
	}
}
