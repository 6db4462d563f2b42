package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/francoishill/grunt-process-includes/internal/cache"
	"github.com/francoishill/grunt-process-includes/internal/config"
	"github.com/francoishill/grunt-process-includes/internal/domain"
	"github.com/francoishill/grunt-process-includes/internal/emitter"
	"github.com/francoishill/grunt-process-includes/internal/expander"
	"github.com/francoishill/grunt-process-includes/internal/fsys"
	"github.com/francoishill/grunt-process-includes/internal/manifest"
	"github.com/francoishill/grunt-process-includes/internal/state"
	"github.com/francoishill/grunt-process-includes/internal/utils"
)

// Runner executes one task per invocation
type Runner struct {
	config   *config.Config
	fs       domain.FileSystem
	logger   *utils.Logger
	progress io.Writer
	store    domain.FingerprintCache
}

// RunnerOptions contains options for creating a runner
type RunnerOptions struct {
	Config *config.Config
	// FileSystem defaults to the OS filesystem
	FileSystem domain.FileSystem
	// Logger defaults to one built from Config.Logging
	Logger  *utils.Logger
	Verbose bool
	// Progress receives progress bars; defaults to stderr when Config.Progress is set
	Progress io.Writer
	// Cache overrides the persistent fingerprint cache built from Config.Cache
	Cache domain.FingerprintCache
}

// Result summarizes a completed task
type Result struct {
	Task     config.Task
	Files    int
	Output   string
	Duration time.Duration
}

// NewRunner creates a new runner with the given configuration
func NewRunner(opts RunnerOptions) (*Runner, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logLevel := config.DefaultLogLevel
		logFormat := config.DefaultLogFormat
		if cfg.Logging.Level != "" {
			logLevel = cfg.Logging.Level
		}
		if cfg.Logging.Format != "" {
			logFormat = cfg.Logging.Format
		}
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   logLevel,
			Format:  logFormat,
			Verbose: opts.Verbose,
		})
	}

	fileSystem := opts.FileSystem
	if fileSystem == nil {
		fileSystem = fsys.NewOS()
	}

	progress := opts.Progress
	if progress == nil && cfg.Progress {
		progress = os.Stderr
	}

	return &Runner{
		config:   cfg,
		fs:       fileSystem,
		logger:   logger,
		progress: progress,
		store:    opts.Cache,
	}, nil
}

// Run validates the configuration for task and executes it. Configuration
// errors are reported before anything is read or written.
func (r *Runner) Run(ctx context.Context, task config.Task) (*Result, error) {
	task, err := config.ParseTask(string(task))
	if err != nil {
		return nil, err
	}
	if err := r.config.Validate(task); err != nil {
		return nil, err
	}

	logger := r.logger.WithTask(string(task))
	logger.Info().Msg("Starting task")
	start := time.Now()

	var res *Result
	switch task {
	case config.TaskExpand:
		res, err = r.expand(ctx, logger)
	case config.TaskClone:
		res, err = r.clone(ctx, logger)
	case config.TaskEmitJSIncludeHTML:
		res, err = r.emitIncludes(ctx, logger, domain.MediaJS)
	case config.TaskEmitCSSIncludeHTML:
		res, err = r.emitIncludes(ctx, logger, domain.MediaCSS)
	case config.TaskEmitFileSizeCSV:
		res, err = r.emitSizes(ctx, logger)
	}
	if err != nil {
		return nil, err
	}

	res.Task = task
	res.Duration = time.Since(start)
	logger.Info().
		Int("files", res.Files).
		Str("output", res.Output).
		Dur("duration", res.Duration).
		Msg("Task completed")
	return res, nil
}

// RunNamed runs a task given by name, including historical aliases
func (r *Runner) RunNamed(ctx context.Context, name string) (*Result, error) {
	return r.Run(ctx, config.Task(name))
}

func (r *Runner) expand(ctx context.Context, logger *utils.Logger) (*Result, error) {
	ec := r.config.Expand
	loader := manifest.NewLoader(r.fs)

	jsManifests, err := loader.LoadAll(ec.JSManifests)
	if err != nil {
		return nil, err
	}
	cssManifests, err := loader.LoadAll(ec.CSSManifests)
	if err != nil {
		return nil, err
	}

	em, err := expander.New(logger).Expand(ctx, expander.Options{
		JSManifests:  jsManifests,
		CSSManifests: cssManifests,
		JSSections:   manifest.NewInclusionSet(ec.JSSections),
		CSSSections:  manifest.NewInclusionSet(ec.CSSSections),
		JS: expander.MediaDirs{
			BaseDir:     ec.BaseCoffeeDir,
			ClonedDir:   ec.ClonedCoffeeDir,
			CompiledDir: ec.CompiledJSDir,
			CombinedDir: ec.CombinedJSDir,
			MinifiedDir: ec.MinifiedJSDir,
		},
		CSS: expander.MediaDirs{
			BaseDir:     ec.BaseScssDir,
			ClonedDir:   ec.ClonedScssDir,
			CompiledDir: ec.CompiledCSSDir,
			CombinedDir: ec.CombinedCSSDir,
			MinifiedDir: ec.MinifiedCSSDir,
		},
		JSPlaceholders:  ec.JSPlaceholders,
		CSSPlaceholders: ec.CSSPlaceholders,
	})
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(em)
	if err != nil {
		return nil, fmt.Errorf("failed to encode expanded manifest: %w", err)
	}
	if err := r.fs.WriteFile(ec.Output, data); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", ec.Output, err)
	}

	return &Result{Files: len(em.LooseFiles), Output: ec.Output}, nil
}

// loadExpanded reads the expanded manifest written by the expand task
func (r *Runner) loadExpanded() (*domain.ExpandedManifest, error) {
	path := r.config.ExpandedManifest
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read expanded manifest: %w", err)
	}
	var em domain.ExpandedManifest
	if err := json.Unmarshal(data, &em); err != nil {
		return nil, fmt.Errorf("invalid expanded manifest %s: %w", path, err)
	}
	if em.ConcatTaskSetup == nil {
		em.ConcatTaskSetup = domain.NewConcatTaskSetup()
	}
	return &em, nil
}

func (r *Runner) clone(ctx context.Context, logger *utils.Logger) (*Result, error) {
	em, err := r.loadExpanded()
	if err != nil {
		return nil, err
	}
	cloner := emitter.NewCloner(r.fs, logger, r.progress)
	if !r.config.State.Enabled {
		n, err := cloner.Clone(ctx, em)
		if err != nil {
			return nil, err
		}
		return &Result{Files: n}, nil
	}

	tracker := state.NewManager(state.ManagerOptions{
		FileSystem: r.fs,
		Path:       r.config.State.File,
		Logger:     logger,
	})
	if err := tracker.Load(ctx); err != nil && !errors.Is(err, state.ErrStateNotFound) {
		logger.Warn().Err(err).Str("path", tracker.Path()).Msg("Ignoring clone state, all sources will be copied")
	}

	n, err := cloner.WithTracker(tracker).Clone(ctx, em)
	if err != nil {
		return nil, err
	}
	if stale := tracker.Stale(); len(stale) > 0 {
		logger.Info().Strs("paths", stale).Msg("Cloned paths no longer in the manifest are left on disk")
		tracker.RemoveStale()
	}
	total, seen := tracker.Stats()
	logger.Debug().Int("tracked", total).Int("seen", seen).Int("copied", n).Msg("Clone state updated")
	if err := tracker.Save(ctx); err != nil {
		return nil, fmt.Errorf("failed to save clone state: %w", err)
	}
	return &Result{Files: n, Output: tracker.Path()}, nil
}

func (r *Runner) emitIncludes(ctx context.Context, logger *utils.Logger, media domain.MediaType) (*Result, error) {
	em, err := r.loadExpanded()
	if err != nil {
		return nil, err
	}

	store, closeStore, err := r.fingerprintStore()
	if err != nil {
		return nil, err
	}
	defer closeStore()

	prints, err := emitter.NewFingerprinter(r.fs, emitter.FingerprinterOptions{Store: store, Logger: logger})
	if err != nil {
		return nil, err
	}

	useCombined := r.config.HTML.UseCombinedPath
	out := r.config.HTML.Output
	if err := emitter.NewIncludeGenerator(r.fs, prints, logger).WithProgress(r.progress).WriteFile(ctx, em, media, useCombined, out); err != nil {
		return nil, err
	}
	return &Result{Files: len(emitter.Paths(em, media, useCombined)), Output: out}, nil
}

func (r *Runner) emitSizes(ctx context.Context, logger *utils.Logger) (*Result, error) {
	em, err := r.loadExpanded()
	if err != nil {
		return nil, err
	}
	reporter := emitter.NewSizeReporter(r.fs, emitter.SizeReporterOptions{
		Logger:   logger,
		Gzip:     r.config.Report.Gzip,
		Progress: r.progress,
	})
	report, err := reporter.WriteFile(ctx, em, r.config.Report.Output)
	if err != nil {
		return nil, err
	}
	return &Result{Files: len(report.Rows), Output: r.config.Report.Output}, nil
}

// fingerprintStore returns the injected cache, or opens the persistent one
// when enabled. The returned func releases what was opened here.
func (r *Runner) fingerprintStore() (domain.FingerprintCache, func(), error) {
	if r.store != nil {
		return r.store, func() {}, nil
	}
	if !r.config.Cache.Enabled {
		return nil, func() {}, nil
	}

	dir := r.config.Cache.Directory
	if dir == "" {
		dir = config.CacheDir()
	}
	store, err := cache.NewBadgerCache(cache.Options{
		Directory: utils.ExpandPath(dir),
		TTL:       r.config.Cache.TTL,
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("directory", dir).Msg("Fingerprint cache unavailable, continuing without it")
		return nil, func() {}, nil
	}
	return store, func() {
		if err := store.Close(); err != nil {
			r.logger.Warn().Err(err).Msg("Failed to close fingerprint cache")
		}
	}, nil
}
