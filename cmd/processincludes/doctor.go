package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/francoishill/grunt-process-includes/internal/cache"
	"github.com/francoishill/grunt-process-includes/internal/config"
	"github.com/francoishill/grunt-process-includes/internal/utils"
)

var (
	successColor = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#02BF87"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#FE5F86", Dark: "#FE5F86"}
	warnColor    = lipgloss.AdaptiveColor{Light: "#FF9500", Dark: "#FFAA33"}
	titleColor   = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
)

// doctorStyles renders check results for one output. Colors are dropped
// when the output is not a terminal.
type doctorStyles struct {
	title lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
}

func newDoctorStyles(out io.Writer) doctorStyles {
	r := lipgloss.NewRenderer(out)
	return doctorStyles{
		title: r.NewStyle().Bold(true).Foreground(titleColor),
		ok:    r.NewStyle().Foreground(successColor),
		warn:  r.NewStyle().Foreground(warnColor),
		fail:  r.NewStyle().Bold(true).Foreground(errorColor),
	}
}

func (c *cli) doctorCmd() *cobra.Command {
	var clearCache bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and environment",
		Long:  "Reports which tasks the current configuration can run and whether the working and cache directories are usable.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := c.stdout
			st := newDoctorStyles(out)
			fmt.Fprintln(out, st.title.Render("Checking configuration..."))
			allPassed := true

			// Check 1: Config file
			fmt.Fprint(out, "  Config file: ")
			cfg, err := c.loadConfig()
			if err != nil {
				fmt.Fprintf(out, "%s (%v)\n", st.fail.Render("FAILED"), err)
				return err
			}
			if used := c.v.ConfigFileUsed(); used != "" {
				fmt.Fprintf(out, "%s (%s)\n", st.ok.Render("OK"), used)
			} else {
				fmt.Fprintf(out, "%s (environment and flags only)\n", st.warn.Render("NOT FOUND"))
			}

			// Check 2: Required keys per task
			for _, task := range config.Tasks {
				fmt.Fprintf(out, "  Task %s: ", task)
				if err := cfg.Validate(task); err != nil {
					fmt.Fprintf(out, "%s (%v)\n", st.warn.Render("NOT READY"), err)
					if string(task) == cfg.Task {
						allPassed = false
					}
					continue
				}
				fmt.Fprintln(out, st.ok.Render("OK"))
			}

			// Check 3: Write permissions for the working directory
			fmt.Fprint(out, "  Write permissions: ")
			if checkWritePermissions(c.fs) {
				fmt.Fprintln(out, st.ok.Render("OK"))
			} else {
				fmt.Fprintln(out, st.fail.Render("FAILED"))
				allPassed = false
			}

			// Check 4: Cache directory and contents
			if cfg.Cache.Enabled || clearCache {
				fmt.Fprint(out, "  Cache directory: ")
				cacheDir := utils.ExpandPath(cfg.Cache.Directory)
				if checkCacheDir(c.fs, cacheDir) {
					fmt.Fprintf(out, "%s (%s)\n", st.ok.Render("OK"), cacheDir)
					reportCache(out, st, cacheDir, clearCache)
				} else {
					fmt.Fprintf(out, "%s (will be created on first use)\n", st.warn.Render("WARN"))
				}
			}

			fmt.Fprintln(out)
			if allPassed {
				fmt.Fprintln(out, st.ok.Render("All critical checks passed!"))
			} else {
				fmt.Fprintln(out, st.fail.Render("Some checks failed. Please resolve the issues above."))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearCache, "clear-cache", false, "Remove every persisted fingerprint")
	return cmd
}

// reportCache prints the fingerprint cache statistics and optionally empties
// it. A cache held open by a running build is reported, not treated as a
// failure.
func reportCache(out io.Writer, st doctorStyles, dir string, empty bool) {
	fmt.Fprint(out, "  Cache contents: ")
	store, err := cache.NewBadgerCache(cache.Options{Directory: dir})
	if err != nil {
		fmt.Fprintf(out, "%s (%v)\n", st.warn.Render("UNAVAILABLE"), err)
		return
	}
	defer store.Close()

	stats := store.Stats()
	fmt.Fprintf(out, "%s (%d entries, lsm %s, vlog %s)\n", st.ok.Render("OK"),
		stats.Entries, humanize.IBytes(uint64(stats.LSMSize)), humanize.IBytes(uint64(stats.VlogSize)))

	if !empty {
		return
	}
	fmt.Fprint(out, "  Cache cleared: ")
	if err := store.Clear(); err != nil {
		fmt.Fprintf(out, "%s (%v)\n", st.fail.Render("FAILED"), err)
		return
	}
	fmt.Fprintf(out, "%s (%d entries removed)\n", st.ok.Render("OK"), stats.Entries)
}

// checkWritePermissions checks if we can write to the current directory
func checkWritePermissions(fs afero.Fs) bool {
	f, err := afero.TempFile(fs, ".", ".processincludes_write_")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	_ = fs.Remove(name)
	return true
}

// checkCacheDir checks if the cache directory exists
func checkCacheDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
