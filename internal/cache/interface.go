package cache

import (
	"time"

	"github.com/francoishill/grunt-process-includes/internal/domain"
)

// Ensure BadgerCache implements domain.FingerprintCache
var _ domain.FingerprintCache = (*BadgerCache)(nil)

// Options contains cache configuration options
type Options struct {
	Directory string
	InMemory  bool
	Logger    bool
	// TTL bounds how long a digest is kept; zero keeps it until overwritten
	TTL time.Duration
}

// DefaultOptions returns default cache options
func DefaultOptions() Options {
	return Options{
		Directory: "",
		InMemory:  false,
		Logger:    false,
	}
}
