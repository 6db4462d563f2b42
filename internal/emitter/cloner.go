package emitter

import (
	"context"
	"fmt"
	"io"

	"github.com/francoishill/grunt-process-includes/internal/domain"
	"github.com/francoishill/grunt-process-includes/internal/utils"
)

// Cloner copies preprocessor sources to their cloned locations
type Cloner struct {
	fs       domain.FileSystem
	logger   *utils.Logger
	progress io.Writer
	tracker  domain.CloneTracker
	hasher   domain.Hasher
}

// NewCloner creates a Cloner. A non-nil progress writer renders a bar.
func NewCloner(fsys domain.FileSystem, logger *utils.Logger, progress io.Writer) *Cloner {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Cloner{fs: fsys, logger: logger.WithComponent("cloner"), progress: progress, hasher: MD5Hasher{}}
}

// WithTracker makes Clone skip a source whose content matches the copy the
// tracker recorded, as long as the cloned file still exists
func (c *Cloner) WithTracker(t domain.CloneTracker) *Cloner {
	c.tracker = t
	return c
}

// Clone copies source_file to cloned_path for every preprocessed loose file
// and returns how many files were copied. Earlier copies stay on disk when a
// later one fails. Files skipped by the tracker are not counted.
func (c *Cloner) Clone(ctx context.Context, em *domain.ExpandedManifest) (int, error) {
	if em == nil {
		return 0, domain.NewInvariantViolationError("nil expanded manifest", nil)
	}

	var pending []*domain.ExpandedFileEntry
	for i := range em.LooseFiles {
		entry := &em.LooseFiles[i]
		if !entry.NeedsClone() {
			continue
		}
		if entry.ClonedPath == nil || *entry.ClonedPath == "" {
			return 0, domain.NewInvariantViolationError("undefined cloned_path", entry)
		}
		pending = append(pending, entry)
	}

	var advance func()
	if c.progress != nil && len(pending) > 0 {
		bar := utils.NewProgressBar(len(pending), utils.DescCloning, c.progress)
		defer bar.Finish()
		advance = func() { _ = bar.Add(1) }
	}

	copied, skipped := 0, 0
	for _, entry := range pending {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		done, err := c.cloneOne(entry)
		if err != nil {
			return copied, fmt.Errorf("failed to clone %s: %w", entry.SourceFile, err)
		}
		if advance != nil {
			advance()
		}
		if !done {
			skipped++
			continue
		}
		copied++
		c.logger.Debug().
			Str("source", entry.SourceFile).
			Str("cloned", *entry.ClonedPath).
			Msg("File cloned")
	}

	c.logger.Info().Int("files", copied).Int("unchanged", skipped).Msg("Preprocessor sources cloned")
	return copied, nil
}

// cloneOne copies a single entry and reports whether a copy was made
func (c *Cloner) cloneOne(entry *domain.ExpandedFileEntry) (bool, error) {
	dest := *entry.ClonedPath
	if c.tracker == nil {
		return true, c.fs.CopyFile(entry.SourceFile, dest)
	}

	data, err := c.fs.ReadFile(entry.SourceFile)
	if err != nil {
		return false, err
	}
	digest := c.hasher.Sum(data)
	if !c.tracker.ShouldCopy(dest, digest) {
		if _, err := c.fs.Stat(dest); err == nil {
			return false, nil
		}
	}
	if err := c.fs.WriteFile(dest, data); err != nil {
		return false, err
	}
	c.tracker.Record(dest, entry.SourceFile, digest)
	return true, nil
}
