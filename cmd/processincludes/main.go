package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/francoishill/grunt-process-includes/internal/app"
	"github.com/francoishill/grunt-process-includes/internal/config"
	"github.com/francoishill/grunt-process-includes/internal/fsys"
	"github.com/francoishill/grunt-process-includes/internal/utils"
	"github.com/francoishill/grunt-process-includes/pkg/version"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit code
func execute(args []string, stdout, stderr io.Writer) int {
	c := newCLI(stdout, stderr)
	root := c.rootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return app.ExitCode(err)
	}
	return app.ExitSuccess
}

// cli holds the state shared by all commands of one invocation
type cli struct {
	v       *viper.Viper
	fs      afero.Fs
	cfgFile string
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{v: viper.New(), fs: afero.NewOsFs(), stdout: stdout, stderr: stderr}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "processincludes",
		Short: "Expand asset manifests into build artifacts",
		Long: `processincludes reads JSON manifests of JavaScript and CSS sources and
expands them into a single intermediate manifest. From that manifest it
clones CoffeeScript/SCSS sources, writes fingerprinted <script>/<link>
include files, and reports the size of every included file.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default is ./processincludes.yaml)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Verbose output")
	pf.String("log-format", config.DefaultLogFormat, "Log format (pretty or json)")
	pf.Bool("progress", false, "Show progress bars")
	pf.Bool("cache", config.DefaultCacheEnabled, "Persist file fingerprints between runs")
	pf.String("cache-dir", "", "Fingerprint cache directory")

	_ = c.v.BindPFlag(config.KeyLoggingFormat, pf.Lookup("log-format"))
	_ = c.v.BindPFlag(config.KeyProgress, pf.Lookup("progress"))
	_ = c.v.BindPFlag(config.KeyCacheEnabled, pf.Lookup("cache"))
	_ = c.v.BindPFlag(config.KeyCacheDirectory, pf.Lookup("cache-dir"))

	root.AddCommand(
		c.runCmd(),
		c.taskCmd(config.TaskExpand, "expand", "Expand manifests into the expanded manifest", func(cmd *cobra.Command) map[string]string {
			cmd.Flags().StringP("output", "o", "", "Expanded manifest output path")
			return map[string]string{"output": config.KeyExpandOutput}
		}),
		c.taskCmd(config.TaskClone, "clone", "Copy CoffeeScript/SCSS sources to their cloned paths", func(cmd *cobra.Command) map[string]string {
			bindings := manifestFlag(cmd)
			cmd.Flags().Bool("incremental", false, "Skip sources unchanged since the copy recorded in the state file")
			cmd.Flags().String("state-file", "", "Clone state file path")
			bindings["incremental"] = config.KeyStateEnabled
			bindings["state-file"] = config.KeyStateFile
			return bindings
		}),
		c.taskCmd(config.TaskEmitJSIncludeHTML, "emit-js-html", "Write fingerprinted <script> tags", htmlFlags),
		c.taskCmd(config.TaskEmitCSSIncludeHTML, "emit-css-html", "Write fingerprinted <link> tags", htmlFlags),
		c.taskCmd(config.TaskEmitFileSizeCSV, "emit-size-csv", "Write a CSV report of included file sizes", func(cmd *cobra.Command) map[string]string {
			bindings := manifestFlag(cmd)
			cmd.Flags().StringP("output", "o", "", "CSV output path")
			cmd.Flags().Bool("gzip", false, "Add a gzip-compressed size column")
			bindings["output"] = config.KeyReportOutput
			bindings["gzip"] = config.KeyReportGzip
			return bindings
		}),
		c.doctorCmd(),
		c.versionCmd(),
	)
	return root
}

func manifestFlag(cmd *cobra.Command) map[string]string {
	cmd.Flags().StringP("manifest", "m", "", "Expanded manifest path")
	return map[string]string{"manifest": config.KeyExpandedManifest}
}

func htmlFlags(cmd *cobra.Command) map[string]string {
	bindings := manifestFlag(cmd)
	cmd.Flags().StringP("output", "o", "", "HTML output path")
	cmd.Flags().Bool("combined", false, "Tag the minified per-section files instead of every file")
	bindings["output"] = config.KeyHTMLOutput
	bindings["combined"] = config.KeyHTMLUseCombinedPath
	return bindings
}

func (c *cli) runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the task named by --task or the task config key",
		Long: `Run executes exactly one task: expand, clone, emitJsIncludeHtml,
emitCssIncludeHtml or emitFileSizeCsv. The historical names
generateExpandedJsonFile, cloneCoffeeAndScss, generateMd5IncludeJsHtmlFile,
generateMd5IncludeCssHtmlFile and generateCsvOfIncludedFileSizeMap are
accepted too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.v.BindPFlag(config.KeyTask, cmd.Flags().Lookup("task")); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runTask(cmd.Context(), cfg, config.Task(cfg.Task))
		},
	}
	cmd.Flags().StringP("task", "t", "", "Task to run")
	return cmd
}

// taskCmd builds a subcommand for one task. Flags are bound when the
// command runs so that commands sharing a flag name do not collide.
func (c *cli) taskCmd(task config.Task, use, short string, flags func(*cobra.Command) map[string]string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
	}
	bindings := flags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		for name, key := range bindings {
			if err := c.v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
				return err
			}
		}
		cfg, err := c.loadConfig()
		if err != nil {
			return err
		}
		return c.runTask(cmd.Context(), cfg, task)
	}
	return cmd
}

func (c *cli) loadConfig() (*config.Config, error) {
	return config.NewLoader(c.v, c.fs).Load(c.cfgFile)
}

func (c *cli) runTask(parent context.Context, cfg *config.Config, task config.Task) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	logger := utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  c.stderr,
		Verbose: c.verbose,
	})

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			logger.Info().Msg("Shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	var progress io.Writer
	if cfg.Progress {
		progress = c.stderr
	}

	runner, err := app.NewRunner(app.RunnerOptions{
		Config:     cfg,
		FileSystem: fsys.New(c.fs),
		Logger:     logger,
		Verbose:    c.verbose,
		Progress:   progress,
	})
	if err != nil {
		return err
	}

	_, err = runner.Run(ctx, task)
	return err
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(c.stdout, version.Full())
		},
	}
}
