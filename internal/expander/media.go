package expander

import (
	"github.com/francoishill/grunt-process-includes/internal/domain"
	"github.com/francoishill/grunt-process-includes/internal/manifest"
)

// mediaType describes how one kind of asset is expanded. JS and CSS are
// symmetric apart from their extensions, directories and placeholders.
type mediaType struct {
	name     domain.MediaType
	srcExt   string
	destExt  string
	kind     domain.PreprocessorKind
	dirs     MediaDirs
	holders  domain.PlaceholderMap
	includes manifest.InclusionSet
	sources  []*manifest.Manifest
}

// entry builds the flags of a loose file for this media type
func (mt *mediaType) entry(preprocessed bool) domain.ExpandedFileEntry {
	e := domain.ExpandedFileEntry{
		IsJS:           mt.name == domain.MediaJS,
		IsCSS:          mt.name == domain.MediaCSS,
		IsPreprocessed: preprocessed,
	}
	if preprocessed {
		e.PreprocessorKind = mt.kind
		e.IsCoffee = mt.kind == domain.PreprocessorCoffee
		e.IsScss = mt.kind == domain.PreprocessorScss
	}
	return e
}

func (mt *mediaType) newTask(section string) *domain.ConcatTask {
	return &domain.ConcatTask{
		Options: domain.ConcatOptions{
			Banner:  domain.DefaultConcatBanner,
			NonNull: true,
		},
		IsJS:         mt.name == domain.MediaJS,
		IsCSS:        mt.name == domain.MediaCSS,
		MinifiedDest: mt.dirs.MinifiedDir + "/" + section + mt.destExt,
		Sources:      []string{},
		Dest:         mt.dirs.CombinedDir + "/" + section + mt.destExt,
	}
}

func jsMedia(opts Options) *mediaType {
	return &mediaType{
		name:     domain.MediaJS,
		srcExt:   ".coffee",
		destExt:  ".js",
		kind:     domain.PreprocessorCoffee,
		dirs:     opts.JS,
		holders:  opts.JSPlaceholders,
		includes: opts.JSSections,
		sources:  opts.JSManifests,
	}
}

func cssMedia(opts Options) *mediaType {
	return &mediaType{
		name:     domain.MediaCSS,
		srcExt:   ".scss",
		destExt:  ".css",
		kind:     domain.PreprocessorScss,
		dirs:     opts.CSS,
		holders:  opts.CSSPlaceholders,
		includes: opts.CSSSections,
		sources:  opts.CSSManifests,
	}
}
