package emitter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/francoishill/grunt-process-includes/internal/domain"
	"github.com/francoishill/grunt-process-includes/internal/utils"
)

// IncludeGenerator renders fingerprinted <script> and <link> tags
type IncludeGenerator struct {
	fs       domain.FileSystem
	prints   *Fingerprinter
	logger   *utils.Logger
	progress io.Writer
}

// NewIncludeGenerator creates an IncludeGenerator
func NewIncludeGenerator(fsys domain.FileSystem, prints *Fingerprinter, logger *utils.Logger) *IncludeGenerator {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &IncludeGenerator{fs: fsys, prints: prints, logger: logger.WithComponent("includes")}
}

// WithProgress renders a fingerprinting progress bar to w
func (g *IncludeGenerator) WithProgress(w io.Writer) *IncludeGenerator {
	g.progress = w
	return g
}

// Tag renders one include tag for a media type
func Tag(media domain.MediaType, path, digest string) (string, error) {
	url := "/" + utils.EnsureNoLeadingSlash(path) + "?" + digest
	switch media {
	case domain.MediaJS:
		return `<script src="` + url + `"></script>` + "\n", nil
	case domain.MediaCSS:
		return `<link rel="stylesheet" href="` + url + `">` + "\n", nil
	default:
		return "", fmt.Errorf("unsupported media type %q", media)
	}
}

// Paths lists the artifact paths tagged for media, in traversal order.
// With useCombined the minified section outputs are used, otherwise the
// final path of every loose file.
func Paths(em *domain.ExpandedManifest, media domain.MediaType, useCombined bool) []string {
	var paths []string
	if em == nil {
		return paths
	}
	if useCombined {
		em.ConcatTaskSetup.Each(func(_ string, task *domain.ConcatTask) {
			if task.Is(media) {
				paths = append(paths, task.MinifiedDest)
			}
		})
		return paths
	}
	for _, entry := range em.LooseFiles {
		if entry.Is(media) {
			paths = append(paths, entry.FinalPath)
		}
	}
	return paths
}

// Generate returns the concatenated include tags for media
func (g *IncludeGenerator) Generate(ctx context.Context, em *domain.ExpandedManifest, media domain.MediaType, useCombined bool) (string, error) {
	paths := Paths(em, media, useCombined)

	var advance func()
	if g.progress != nil && len(paths) > 0 {
		bar := utils.NewProgressBar(len(paths), utils.DescHashing, g.progress)
		defer bar.Finish()
		advance = func() { _ = bar.Add(1) }
	}

	var b strings.Builder
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		digest, err := g.prints.Fingerprint(ctx, p)
		if err != nil {
			return "", err
		}
		tag, err := Tag(media, p, digest)
		if err != nil {
			return "", err
		}
		b.WriteString(tag)
		if advance != nil {
			advance()
		}
	}
	return b.String(), nil
}

// WriteFile renders the include tags and writes them to outPath
func (g *IncludeGenerator) WriteFile(ctx context.Context, em *domain.ExpandedManifest, media domain.MediaType, useCombined bool, outPath string) error {
	html, err := g.Generate(ctx, em, media, useCombined)
	if err != nil {
		return err
	}
	if err := g.fs.WriteFile(outPath, []byte(html)); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	g.logger.Info().
		Str("media", string(media)).
		Bool("combined", useCombined).
		Str("output", outPath).
		Msg("Include file written")
	return nil
}
