package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/francoishill/grunt-process-includes/internal/config"
	"github.com/francoishill/grunt-process-includes/internal/domain"
	"github.com/francoishill/grunt-process-includes/internal/fsys"
	"github.com/francoishill/grunt-process-includes/internal/manifest"
	"github.com/francoishill/grunt-process-includes/internal/mocks"
	"github.com/francoishill/grunt-process-includes/internal/utils"
)

const jsManifest = `{"sections": [
  {"name": "core", "baseDir": "src/js/", "fileGroups": [{"name": "g1", "files": ["a.js", "b.coffee"]}]},
  {"name": "admin", "baseDir": "src/js/", "fileGroups": [{"name": "g", "files": ["admin.js"]}]}
]}`

const cssManifest = `{"sections": [
  {"name": "site", "baseDir": "src/scss/", "fileGroups": [{"name": "g", "files": ["theme.scss"]}]}
]}`

func fixtureFS(t *testing.T) *fsys.FileSystem {
	t.Helper()
	fs := fsys.NewMemory()
	for p, content := range map[string]string{
		"includes/js.json":       jsManifest,
		"includes/css.json":      cssManifest,
		"src/js/a.js":            "hello",
		"src/js/b.coffee":        "x = 1",
		"src/js/admin.js":        "admin",
		"src/scss/theme.scss":    "$c: red;",
		"build/js/b.js":          "a",
		"build/css/theme.css":    "",
		"build/min/core.js":      "hello",
		"build/min/site.css":     "a",
		"build/combined/core.js": "x",
	} {
		require.NoError(t, fs.WriteFile(p, []byte(content)))
	}
	return fs
}

func fullConfig() *config.Config {
	cfg := config.Default()
	cfg.Expand = config.ExpandConfig{
		JSManifests:     []string{"includes/js.json"},
		CSSManifests:    []string{"includes/css.json"},
		JSSections:      []string{"core"},
		CSSSections:     nil,
		BaseCoffeeDir:   "src/js/",
		BaseScssDir:     "src/scss/",
		ClonedCoffeeDir: "tmp/coffee/",
		ClonedScssDir:   "tmp/scss/",
		CompiledJSDir:   "build/js/",
		CompiledCSSDir:  "build/css/",
		CombinedJSDir:   "build/combined",
		CombinedCSSDir:  "build/combined",
		MinifiedJSDir:   "build/min",
		MinifiedCSSDir:  "build/min",
		Output:          "build/expanded.json",
	}
	cfg.ExpandedManifest = "build/expanded.json"
	cfg.HTML = config.HTMLConfig{Output: "build/include.html"}
	cfg.Report = config.ReportConfig{Output: "build/sizes.csv"}
	for _, task := range config.Tasks {
		cfg.Provide(config.RequiredKeys(task)...)
	}
	return cfg
}

func newTestRunner(t *testing.T, cfg *config.Config, fs domain.FileSystem) *Runner {
	t.Helper()
	r, err := NewRunner(RunnerOptions{Config: cfg, FileSystem: fs, Logger: utils.NewNopLogger()})
	require.NoError(t, err)
	return r
}

func TestNewRunner_RequiresConfig(t *testing.T) {
	_, err := NewRunner(RunnerOptions{})
	assert.Error(t, err)
}

func TestRunner_FullPipeline(t *testing.T) {
	ctx := context.Background()
	fs := fixtureFS(t)
	cfg := fullConfig()
	r := newTestRunner(t, cfg, fs)

	res, err := r.Run(ctx, config.TaskExpand)
	require.NoError(t, err)
	assert.Equal(t, config.TaskExpand, res.Task)
	assert.Equal(t, 3, res.Files)

	raw, err := fs.ReadFile("build/expanded.json")
	require.NoError(t, err)
	var em domain.ExpandedManifest
	require.NoError(t, json.Unmarshal(raw, &em))
	assert.Equal(t, []string{"dest_js_core", "dest_css_site"}, em.ConcatTaskSetup.Keys())

	res, err = r.Run(ctx, config.TaskClone)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Files)
	cloned, err := fs.ReadFile("tmp/scss/theme.scss")
	require.NoError(t, err)
	assert.Equal(t, "$c: red;", string(cloned))

	_, err = r.Run(ctx, config.TaskEmitJSIncludeHTML)
	require.NoError(t, err)
	html, err := fs.ReadFile("build/include.html")
	require.NoError(t, err)
	assert.Equal(t,
		"<script src=\"/src/js/a.js?5d41402abc4b2a76b9719d911017c592\"></script>\n"+
			"<script src=\"/build/js/b.js?0cc175b9c0f1b6a831c399e269772661\"></script>\n",
		string(html))

	cfg.HTML.UseCombinedPath = true
	_, err = r.Run(ctx, config.TaskEmitCSSIncludeHTML)
	require.NoError(t, err)
	html, err = fs.ReadFile("build/include.html")
	require.NoError(t, err)
	assert.Equal(t, "<link rel=\"stylesheet\" href=\"/build/min/site.css?0cc175b9c0f1b6a831c399e269772661\">\n", string(html))

	res, err = r.Run(ctx, config.TaskEmitFileSizeCSV)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Files)
	csv, err := fs.ReadFile("build/sizes.csv")
	require.NoError(t, err)
	assert.Equal(t, "FileRelativePath,FileSize\n"+
		"src/js/a.js,5\n"+
		"build/js/b.js,1\n"+
		"build/css/theme.css,0\n"+
		"--------------,------\n"+
		"TOTAL SIZE (bytes),6\n"+
		"TOTAL SIZE (kB),0\n"+
		"TOTAL SIZE (MB),0\n", string(csv))

	after, err := fs.ReadFile("build/expanded.json")
	require.NoError(t, err)
	assert.Equal(t, raw, after, "emitters never rewrite the expanded manifest")
}

func TestRunner_Aliases(t *testing.T) {
	fs := fixtureFS(t)
	r := newTestRunner(t, fullConfig(), fs)

	res, err := r.RunNamed(context.Background(), "generateExpandedJsonFile")
	require.NoError(t, err)
	assert.Equal(t, config.TaskExpand, res.Task)

	res, err = r.RunNamed(context.Background(), "cloneCoffeeAndScss")
	require.NoError(t, err)
	assert.Equal(t, config.TaskClone, res.Task)
}

func TestRunner_UnknownTask(t *testing.T) {
	r := newTestRunner(t, fullConfig(), fixtureFS(t))

	_, err := r.RunNamed(context.Background(), "deploy")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Equal(t, ExitConfigError, ExitCode(err))
}

func TestRunner_MissingKeyBeforeSideEffects(t *testing.T) {
	fs := fixtureFS(t)
	cfg := config.Default()
	cfg.Expand = fullConfig().Expand
	cfg.Provide(config.KeyJSManifests, config.KeyCSSManifests, config.KeyJSSections)

	_, err := newTestRunner(t, cfg, fs).Run(context.Background(), config.TaskExpand)

	var cerr *domain.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, config.KeyCSSSections, cerr.Key)

	_, statErr := fs.Stat("build/expanded.json")
	assert.Error(t, statErr)
}

func TestRunner_PathMismatch(t *testing.T) {
	fs := fixtureFS(t)
	cfg := fullConfig()
	cfg.Expand.BaseCoffeeDir = "lib/"

	_, err := newTestRunner(t, cfg, fs).Run(context.Background(), config.TaskExpand)

	assert.ErrorIs(t, err, domain.ErrPathMismatch)
	assert.Equal(t, ExitPathMismatch, ExitCode(err))
	_, statErr := fs.Stat("build/expanded.json")
	assert.Error(t, statErr)
}

func TestRunner_SectionSelection(t *testing.T) {
	fs := fixtureFS(t)
	cfg := fullConfig()
	cfg.Expand.JSSections = []string{}

	res, err := newTestRunner(t, cfg, fs).Run(context.Background(), config.TaskExpand)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Files, "an empty section list selects nothing")

	cfg.Expand.JSSections = nil
	res, err = newTestRunner(t, cfg, fs).Run(context.Background(), config.TaskExpand)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Files, "a null section list selects everything")
}

func TestRunner_MissingExpandedManifest(t *testing.T) {
	cfg := fullConfig()
	cfg.ExpandedManifest = "nowhere.json"

	_, err := newTestRunner(t, cfg, fixtureFS(t)).Run(context.Background(), config.TaskClone)
	assert.Error(t, err)
	assert.Equal(t, ExitFileSystemError, ExitCode(err))
}

func TestRunner_MissingManifest(t *testing.T) {
	cfg := fullConfig()
	cfg.Expand.JSManifests = []string{"includes/none.json"}

	_, err := newTestRunner(t, cfg, fixtureFS(t)).Run(context.Background(), config.TaskExpand)
	assert.ErrorIs(t, err, manifest.ErrFileNotFound)
	assert.Equal(t, ExitFileSystemError, ExitCode(err))
}

func TestRunner_InvariantViolation(t *testing.T) {
	fs := fixtureFS(t)
	require.NoError(t, fs.WriteFile("build/expanded.json",
		[]byte(`{"concat_task_setup":{},"loose_files":[{"source_file":"src/js/b.coffee","is_coffee":true,"is_js":true}]}`)))

	_, err := newTestRunner(t, fullConfig(), fs).Run(context.Background(), config.TaskClone)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.Equal(t, ExitInvariantViolated, ExitCode(err))
}

func TestRunner_InjectedFingerprintCache(t *testing.T) {
	ctx := context.Background()
	fs := fixtureFS(t)
	cfg := fullConfig()
	r := newTestRunner(t, cfg, fs)
	_, err := r.Run(ctx, config.TaskExpand)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	store := mocks.NewMockFingerprintCache(ctrl)
	store.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", domain.ErrCacheMiss).Times(2)
	store.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	withCache, err := NewRunner(RunnerOptions{Config: cfg, FileSystem: fs, Logger: utils.NewNopLogger(), Cache: store})
	require.NoError(t, err)
	_, err = withCache.Run(ctx, config.TaskEmitJSIncludeHTML)
	require.NoError(t, err)
}

func TestRunner_PersistentCache(t *testing.T) {
	ctx := context.Background()
	fs := fixtureFS(t)
	cfg := fullConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Directory = t.TempDir()
	r := newTestRunner(t, cfg, fs)

	_, err := r.Run(ctx, config.TaskExpand)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = r.Run(ctx, config.TaskEmitJSIncludeHTML)
		require.NoError(t, err)
	}
	html, err := fs.ReadFile("build/include.html")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(html), "<script"))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"config", domain.NewMissingKeyError("task"), ExitConfigError},
		{"path", fmt.Errorf("wrap: %w", domain.NewPathMismatchError("a", "b")), ExitPathMismatch},
		{"invariant", domain.NewInvariantViolationError("x", nil), ExitInvariantViolated},
		{"not exist", fmt.Errorf("read: %w", os.ErrNotExist), ExitFileSystemError},
		{"path error", &os.PathError{Op: "open", Path: "x", Err: errors.New("boom")}, ExitFileSystemError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
			assert.NotEqual(t, "Unknown error", ExitCodeString(tt.want))
		})
	}
	assert.Equal(t, "Unknown error", ExitCodeString(42))
}

func TestRunner_CloneWithState(t *testing.T) {
	ctx := context.Background()
	fs := fixtureFS(t)
	cfg := fullConfig()
	cfg.State = config.StateConfig{Enabled: true, File: "build/clone-state.json"}
	r := newTestRunner(t, cfg, fs)

	_, err := r.Run(ctx, config.TaskExpand)
	require.NoError(t, err)

	res, err := r.Run(ctx, config.TaskClone)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Files)
	assert.Equal(t, "build/clone-state.json", res.Output)

	raw, err := fs.ReadFile("build/clone-state.json")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "tmp/coffee/b.coffee")

	res, err = r.Run(ctx, config.TaskClone)
	require.NoError(t, err)
	assert.Zero(t, res.Files, "unchanged sources are skipped")

	require.NoError(t, fs.WriteFile("src/js/b.coffee", []byte("x = 2")))
	res, err = r.Run(ctx, config.TaskClone)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Files)
}

func TestRunner_CloneWithCorruptState(t *testing.T) {
	ctx := context.Background()
	fs := fixtureFS(t)
	cfg := fullConfig()
	cfg.State = config.StateConfig{Enabled: true, File: "build/clone-state.json"}
	require.NoError(t, fs.WriteFile("build/clone-state.json", []byte("{broken")))
	r := newTestRunner(t, cfg, fs)

	_, err := r.Run(ctx, config.TaskExpand)
	require.NoError(t, err)
	res, err := r.Run(ctx, config.TaskClone)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Files)
}

func TestRunner_CloneForgetsPathsLeavingTheManifest(t *testing.T) {
	ctx := context.Background()
	fs := fixtureFS(t)
	cfg := fullConfig()
	cfg.State = config.StateConfig{Enabled: true, File: "build/clone-state.json"}

	var logs bytes.Buffer
	logger := utils.NewLogger(utils.LoggerOptions{Level: "debug", Format: "json", Output: &logs})
	r, err := NewRunner(RunnerOptions{Config: cfg, FileSystem: fs, Logger: logger})
	require.NoError(t, err)

	_, err = r.Run(ctx, config.TaskExpand)
	require.NoError(t, err)
	_, err = r.Run(ctx, config.TaskClone)
	require.NoError(t, err)

	require.NoError(t, fs.WriteFile("includes/css.json", []byte(`{"sections": []}`)))
	_, err = r.Run(ctx, config.TaskExpand)
	require.NoError(t, err)
	logs.Reset()
	_, err = r.Run(ctx, config.TaskClone)
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "Cloned paths no longer in the manifest are left on disk")
	assert.Contains(t, out, "tmp/scss/theme.scss")
	assert.Contains(t, out, `"tracked":1`)
	assert.Contains(t, out, `"seen":1`)

	raw, err := fs.ReadFile("build/clone-state.json")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "tmp/coffee/b.coffee")
	assert.NotContains(t, string(raw), "tmp/scss/theme.scss")

	_, err = fs.Stat("tmp/scss/theme.scss")
	assert.NoError(t, err, "stale clones are not deleted")
}
