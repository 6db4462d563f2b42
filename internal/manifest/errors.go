package manifest

import "errors"

// Sentinel errors for the manifest package
var (
	// ErrEmptySectionName indicates a section is missing its name
	ErrEmptySectionName = errors.New("section name cannot be empty")

	// ErrDuplicateSection indicates two sections of one manifest share a name
	ErrDuplicateSection = errors.New("section name must be unique within a manifest")

	// ErrInvalidFormat indicates the manifest file is not valid JSON or YAML
	ErrInvalidFormat = errors.New("manifest must be valid JSON or YAML")

	// ErrFileNotFound indicates the manifest file does not exist
	ErrFileNotFound = errors.New("manifest file not found")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .json, .yaml, or .yml)")
)
