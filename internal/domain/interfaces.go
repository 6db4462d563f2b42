package domain

import (
	"context"
	"time"
)

// FileSystem is the filesystem collaborator used by every task
type FileSystem interface {
	// ReadFile returns the full contents of a file
	ReadFile(path string) ([]byte, error)
	// WriteFile writes data, creating parent directories as needed
	WriteFile(path string, data []byte) error
	// CopyFile copies src to dst, overwriting dst and creating its parent directories
	CopyFile(src, dst string) error
	// ByteLength returns the size of a file in bytes
	ByteLength(path string) (int64, error)
	// Stat returns size and modification time of a file
	Stat(path string) (FileInfo, error)
}

// FileInfo is the subset of file metadata the tasks rely on
type FileInfo struct {
	Size    int64
	ModTime time.Time
}

// Hasher turns content into a hex digest
type Hasher interface {
	Sum(data []byte) string
}

// FingerprintCache persists content digests between runs
type FingerprintCache interface {
	// Get retrieves a digest; returns ErrCacheMiss when absent
	Get(ctx context.Context, key string) (string, error)
	// Set stores a digest
	Set(ctx context.Context, key string, digest string) error
	// Close releases cache resources
	Close() error
}

// CloneTracker remembers what the clone task copied so that sources with
// unchanged content can be skipped
type CloneTracker interface {
	// ShouldCopy reports whether dest needs a fresh copy of content with digest
	ShouldCopy(dest, digest string) bool
	// Record notes that src was copied to dest with content digest
	Record(dest, src, digest string)
}
