package emitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/francoishill/grunt-process-includes/internal/domain"
	"github.com/francoishill/grunt-process-includes/internal/fsys"
)

// countingFS counts reads of the wrapped filesystem
type countingFS struct {
	domain.FileSystem
	reads map[string]int
}

func newCountingFS(inner domain.FileSystem) *countingFS {
	return &countingFS{FileSystem: inner, reads: map[string]int{}}
}

func (c *countingFS) ReadFile(path string) ([]byte, error) {
	c.reads[path]++
	return c.FileSystem.ReadFile(path)
}

func writeFiles(t *testing.T, fs domain.FileSystem, files map[string]string) {
	t.Helper()
	for p, content := range files {
		require.NoError(t, fs.WriteFile(p, []byte(content)))
	}
}

func ptr(s string) *string { return &s }

// sampleManifest is the expansion of a "core" JS section with a.js and
// b.coffee plus a "site" CSS section with main.css
func sampleManifest() *domain.ExpandedManifest {
	em := domain.NewExpandedManifest()
	em.LooseFiles = []domain.ExpandedFileEntry{
		{SectionName: "core", GroupName: "g1", SourceFile: "src/js/a.js", FinalPath: "src/js/a.js", IsJS: true},
		{
			SectionName: "core", GroupName: "g1", SourceFile: "src/js/b.coffee", ClonedPath: ptr("tmp/coffee/b.coffee"),
			FinalPath: "build/js/b.js", IsJS: true, IsCoffee: true, IsPreprocessed: true, PreprocessorKind: domain.PreprocessorCoffee,
		},
		{SectionName: "site", GroupName: "g", SourceFile: "src/css/main.css", FinalPath: "src/css/main.css", IsCSS: true},
	}
	em.ConcatTaskSetup.GetOrCreate("dest_js_core", func() *domain.ConcatTask {
		return &domain.ConcatTask{IsJS: true, Dest: "combined/js/core.js", MinifiedDest: "min/js/core.js",
			Sources: []string{"src/js/a.js", "build/js/b.js"}}
	})
	em.ConcatTaskSetup.GetOrCreate("dest_css_site", func() *domain.ConcatTask {
		return &domain.ConcatTask{IsCSS: true, Dest: "combined/css/site.css", MinifiedDest: "min/css/site.css",
			Sources: []string{"src/css/main.css"}}
	})
	return em
}

func sampleFS(t *testing.T) *fsys.FileSystem {
	t.Helper()
	fs := fsys.NewMemory()
	writeFiles(t, fs, map[string]string{
		"src/js/a.js":      "hello",
		"src/js/b.coffee":  "x = 1",
		"build/js/b.js":    "a",
		"src/css/main.css": "",
		"min/js/core.js":   "hello",
		"min/css/site.css": "a",
	})
	return fs
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
