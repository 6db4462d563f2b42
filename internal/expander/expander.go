// Package expander turns asset manifests into an ExpandedManifest: the flat
// list of loose files plus one concatenation task per section and media type.
package expander

import (
	"context"
	"fmt"

	"github.com/francoishill/grunt-process-includes/internal/domain"
	"github.com/francoishill/grunt-process-includes/internal/manifest"
	"github.com/francoishill/grunt-process-includes/internal/utils"
)

// MediaDirs holds the directories used for one media type
type MediaDirs struct {
	// BaseDir is the prefix every preprocessed source must start with
	BaseDir     string
	ClonedDir   string
	CompiledDir string
	CombinedDir string
	MinifiedDir string
}

// Options is the input of a single expansion
type Options struct {
	JSManifests  []*manifest.Manifest
	CSSManifests []*manifest.Manifest

	JSSections  manifest.InclusionSet
	CSSSections manifest.InclusionSet

	JS  MediaDirs
	CSS MediaDirs

	JSPlaceholders  domain.PlaceholderMap
	CSSPlaceholders domain.PlaceholderMap
}

// Expander builds expanded manifests
type Expander struct {
	walker *manifest.Walker
	logger *utils.Logger
}

// New creates an Expander
func New(logger *utils.Logger) *Expander {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Expander{
		walker: manifest.NewWalker(logger),
		logger: logger.WithComponent("expander"),
	}
}

// Expand processes every JS manifest, then every CSS manifest, and returns
// the resulting ExpandedManifest. Nothing is returned on error.
func (e *Expander) Expand(ctx context.Context, opts Options) (*domain.ExpandedManifest, error) {
	em := domain.NewExpandedManifest()

	for _, mt := range []*mediaType{jsMedia(opts), cssMedia(opts)} {
		for _, m := range mt.sources {
			if err := e.expandManifest(ctx, em, mt, m); err != nil {
				return nil, err
			}
		}
	}

	e.logger.Info().
		Int("loose_files", len(em.LooseFiles)).
		Int("concat_tasks", em.ConcatTaskSetup.Len()).
		Msg("Manifest expanded")

	return em, nil
}

func (e *Expander) expandManifest(ctx context.Context, em *domain.ExpandedManifest, mt *mediaType, m *manifest.Manifest) error {
	for ref := range e.walker.Files(m, mt.includes) {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry, err := mt.expandFile(ref)
		if err != nil {
			return fmt.Errorf("expand %s section %q: %w", mt.name, ref.Section, err)
		}

		em.LooseFiles = append(em.LooseFiles, entry)

		task := em.ConcatTaskSetup.GetOrCreate(domain.ConcatTaskKey(mt.name, ref.Section), func() *domain.ConcatTask {
			return mt.newTask(ref.Section)
		})
		task.Sources = append(task.Sources, entry.FinalPath)

		e.logger.Debug().
			Str("section", ref.Section).
			Str("source", ref.Path).
			Str("final", entry.FinalPath).
			Bool("placeholder", entry.IsPlaceholderFile).
			Msg("File expanded")
	}
	return nil
}

func (mt *mediaType) expandFile(ref manifest.FileRef) (domain.ExpandedFileEntry, error) {
	preprocessed := utils.Ext(ref.Path) == mt.srcExt
	entry := mt.entry(preprocessed)
	entry.SectionName = ref.Section
	entry.GroupName = ref.Group
	entry.SourceFile = ref.Path

	finalPath, err := utils.ResolveCompiledPath(ref.Path, mt.srcExt, mt.destExt, mt.dirs.BaseDir, mt.dirs.CompiledDir)
	if err != nil {
		return entry, err
	}
	if preprocessed {
		rel, err := utils.StripBaseDir(ref.Path, mt.dirs.BaseDir)
		if err != nil {
			return entry, err
		}
		cloned := mt.dirs.ClonedDir + rel
		entry.ClonedPath = &cloned
	}

	entry.FinalPath, entry.IsPlaceholderFile = utils.ApplyPlaceholder(finalPath, mt.holders)
	return entry, nil
}
