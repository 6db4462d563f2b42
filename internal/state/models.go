package state

import "time"

// StateVersion is the schema version for state file migration
const StateVersion = 1

// CloneState records the last copy made to every cloned path
type CloneState struct {
	Version int                  `json:"version"`
	LastRun time.Time            `json:"last_run"`
	Files   map[string]FileState `json:"files"`
}

// FileState describes one cloned file, keyed by its cloned path
type FileState struct {
	Source      string    `json:"source"`
	ContentHash string    `json:"content_hash"`
	ClonedAt    time.Time `json:"cloned_at"`
}

// NewCloneState creates a new empty clone state
func NewCloneState() *CloneState {
	return &CloneState{
		Version: StateVersion,
		LastRun: time.Now(),
		Files:   make(map[string]FileState),
	}
}

// FileCount returns the number of files in the state
func (s *CloneState) FileCount() int {
	return len(s.Files)
}

// GetFile returns the state of a cloned path
func (s *CloneState) GetFile(dest string) (FileState, bool) {
	f, ok := s.Files[dest]
	return f, ok
}
