// Package state persists what the clone task copied, so a later run can
// skip sources whose content is unchanged.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"sort"
	"sync"
	"time"

	"github.com/francoishill/grunt-process-includes/internal/domain"
	"github.com/francoishill/grunt-process-includes/internal/utils"
)

// StateFileName is the default name of the state file
const StateFileName = ".processincludes-state.json"

// Ensure Manager implements domain.CloneTracker
var _ domain.CloneTracker = (*Manager)(nil)

// Manager loads, updates and saves a CloneState
type Manager struct {
	fs       domain.FileSystem
	path     string
	state    *CloneState
	mu       sync.RWMutex
	dirty    bool
	logger   *utils.Logger
	disabled bool
	seen     sync.Map
}

// ManagerOptions contains options for creating a Manager
type ManagerOptions struct {
	FileSystem domain.FileSystem
	// Path of the state file; defaults to StateFileName
	Path     string
	Logger   *utils.Logger
	Disabled bool
}

// NewManager creates a Manager with an empty state
func NewManager(opts ManagerOptions) *Manager {
	path := opts.Path
	if path == "" {
		path = StateFileName
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Manager{
		fs:       opts.FileSystem,
		path:     path,
		logger:   logger.WithComponent("state"),
		disabled: opts.Disabled,
		state:    NewCloneState(),
	}
}

// Load replaces the in-memory state with the state file. On any error the
// current state is kept, so callers may log and carry on with a fresh one.
func (m *Manager) Load(ctx context.Context) error {
	if m.disabled {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.fs.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrStateNotFound
	}
	if err != nil {
		return err
	}

	var st CloneState
	if err := json.Unmarshal(data, &st); err != nil {
		return ErrStateCorrupted
	}

	if st.Version != StateVersion {
		m.logger.Warn().
			Int("file_version", st.Version).
			Int("expected_version", StateVersion).
			Msg("State version mismatch, will rebuild state")
		return ErrVersionMismatch
	}
	if st.Files == nil {
		st.Files = make(map[string]FileState)
	}

	m.state = &st
	return nil
}

// Save writes the state file when something changed since the last save
func (m *Manager) Save(ctx context.Context) error {
	if m.disabled {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}

	m.state.LastRun = time.Now()

	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return err
	}
	if err := m.fs.WriteFile(m.path, data); err != nil {
		return err
	}

	m.dirty = false
	m.logger.Debug().
		Int("files", len(m.state.Files)).
		Str("path", m.path).
		Msg("State saved")
	return nil
}

// ShouldCopy reports whether dest needs a fresh copy of content with the
// given digest. It marks dest as seen in this run.
func (m *Manager) ShouldCopy(dest, digest string) bool {
	m.seen.Store(dest, true)
	if m.disabled {
		return true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.state.Files[dest]
	if !ok {
		return true
	}
	return f.ContentHash != digest
}

// Record notes that src was copied to dest with content digest
func (m *Manager) Record(dest, src, digest string) {
	m.seen.Store(dest, true)
	if m.disabled {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if f, ok := m.state.Files[dest]; ok && f.Source == src && f.ContentHash == digest {
		return
	}
	m.state.Files[dest] = FileState{Source: src, ContentHash: digest, ClonedAt: time.Now()}
	m.dirty = true
}

// Stale returns the recorded cloned paths not seen in this run, sorted
func (m *Manager) Stale() []string {
	if m.disabled {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var stale []string
	for dest := range m.state.Files {
		if _, seen := m.seen.Load(dest); !seen {
			stale = append(stale, dest)
		}
	}
	sort.Strings(stale)
	return stale
}

// RemoveStale forgets every cloned path not seen in this run. The cloned
// files themselves are left on disk.
func (m *Manager) RemoveStale() int {
	if m.disabled {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for dest := range m.state.Files {
		if _, seen := m.seen.Load(dest); !seen {
			delete(m.state.Files, dest)
			removed++
			m.dirty = true
		}
	}
	return removed
}

// Stats returns how many paths are recorded and how many were seen
func (m *Manager) Stats() (total, seen int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total = len(m.state.Files)
	m.seen.Range(func(_, _ any) bool {
		seen++
		return true
	})
	return total, seen
}

// IsDisabled reports whether the manager ignores the state file
func (m *Manager) IsDisabled() bool {
	return m.disabled
}

// Path returns the state file path
func (m *Manager) Path() string {
	return m.path
}
