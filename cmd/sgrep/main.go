// Command sgrep is the CLI entrypoint: cobra flag registration in the
// teacher's own style (cmd/cli/main.go), wired to the engine packages
// instead of the teacher's file-metadata search.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/alestack/sgrep/internal/applog"
	"github.com/alestack/sgrep/internal/config"
	"github.com/alestack/sgrep/internal/ignore"
	"github.com/alestack/sgrep/internal/matcher"
	"github.com/alestack/sgrep/internal/output"
	"github.com/alestack/sgrep/internal/walker"
)

const (
	exitMatchFound = 0
	exitNoMatch    = 1
	exitFatal      = 2
)

var (
	flagIgnoreCase   bool
	flagWordBoundary bool
	flagLineNumbers  bool
	flagCountOnly    bool
	flagFilesOnly    bool
	flagGlobs        []string
	flagNoIgnore     bool
	flagHidden       bool
	flagJobs         int
	flagMaxDepth     int
	flagColor        string
	flagHeading      bool
	flagNoHeading    bool
	flagProgress     bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := &cobra.Command{
		Use:   "sgrep PATTERN [PATH...]",
		Short: "Recursive content search with a hand-rolled regex engine",
		Long: `sgrep searches files for a pattern using a Thompson-NFA regex engine
and a SIMD-accelerated literal scanner, walking directories in parallel with
a work-stealing scheduler and honoring .gitignore by default.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         runSearch,
	}

	rootCmd.Flags().BoolVarP(&flagIgnoreCase, "ignore-case", "i", false, "Case-insensitive matching")
	rootCmd.Flags().BoolVarP(&flagWordBoundary, "word-regexp", "w", false, "Word-boundary matching")
	rootCmd.Flags().BoolVarP(&flagLineNumbers, "line-number", "n", false, "Force line numbers on")
	rootCmd.Flags().BoolVarP(&flagCountOnly, "count", "c", false, "Count-only mode: one file:count line per file")
	rootCmd.Flags().BoolVarP(&flagFilesOnly, "files-with-matches", "l", false, "Print only file names containing matches")
	rootCmd.Flags().StringSliceVarP(&flagGlobs, "glob", "g", nil, "Include/exclude glob filter; a leading ! negates")
	rootCmd.Flags().BoolVar(&flagNoIgnore, "no-ignore", false, "Disable .gitignore consultation")
	rootCmd.Flags().BoolVar(&flagHidden, "hidden", false, "Include dot-prefixed files and directories")
	rootCmd.Flags().IntVarP(&flagJobs, "jobs", "j", runtime.NumCPU(), "Worker goroutine count")
	rootCmd.Flags().IntVarP(&flagMaxDepth, "max-depth", "d", 0, "Maximum recursion depth (0 = unlimited)")
	rootCmd.Flags().StringVar(&flagColor, "color", "auto", `Color policy: "auto", "always", or "never"`)
	rootCmd.Flags().BoolVar(&flagHeading, "heading", false, "Force grouped (heading) output")
	rootCmd.Flags().BoolVar(&flagNoHeading, "no-heading", false, "Force flat output")
	rootCmd.Flags().BoolVar(&flagProgress, "progress", false, "Show a live scanned-file counter on stderr")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFatal
	}
	return lastExitCode
}

// lastExitCode carries the exit code RunE decided on, since cobra's own
// Execute only reports whether an error occurred, not which of the spec's
// three codes applies.
var lastExitCode = exitFatal

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := config.Resolved{
		Pattern:      args[0],
		Roots:        args[1:],
		IgnoreCase:   flagIgnoreCase,
		WordBoundary: flagWordBoundary,
		LineNumbers:  flagLineNumbers,
		CountOnly:    flagCountOnly,
		FilesOnly:    flagFilesOnly,
		Globs:        flagGlobs,
		NoIgnore:     flagNoIgnore,
		Hidden:       flagHidden,
		Jobs:         flagJobs,
		MaxDepth:     flagMaxDepth,
		Color:        parseColorPolicy(flagColor),
		Progress:     flagProgress,
	}
	if flagHeading || flagNoHeading {
		v := flagHeading
		cfg.Heading = &v
	}

	cfg, err := config.Resolve(cfg)
	if err != nil {
		lastExitCode = exitFatal
		return err
	}

	log := applog.New(os.Stderr)
	defer log.Close()

	m, err := matcher.New(cfg.Pattern, cfg.IgnoreCase, cfg.WordBoundary)
	if err != nil {
		lastExitCode = exitFatal
		return err
	}

	var ignores *ignore.Matcher
	if !cfg.NoIgnore {
		ignores = ignore.New()
	}

	stdoutIsTTY := isTerminal(os.Stdout)
	sink := output.NewSink(os.Stdout, cfg, stdoutIsTTY)

	w := walker.New(cfg, ignores, m, sink, log)

	if flagProgress && isTerminal(os.Stderr) {
		bar := progressbar.Default(-1, "scanning")
		w.OnFileScanned = func() { bar.Add(1) }
		defer bar.Finish()
	}

	installSignalHandler(log)

	if cfg.Jobs == 1 {
		walker.WalkSequential(cfg, ignores, m, sink, log)
	} else {
		w.Run()
	}

	if err := sink.Flush(); err != nil {
		lastExitCode = exitFatal
		return err
	}

	if sink.TotalMatches() > 0 {
		lastExitCode = exitMatchFound
	} else {
		lastExitCode = exitNoMatch
	}
	return nil
}

func parseColorPolicy(s string) config.ColorPolicy {
	switch s {
	case "always":
		return config.ColorAlways
	case "never":
		return config.ColorNever
	default:
		return config.ColorAuto
	}
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// installSignalHandler gives Ctrl+C a clean message instead of a silent
// kill. Per spec §5, in-flight tasks are never cancelled cooperatively —
// they are short-lived by design, so an immediate process exit on signal
// is the correct behavior rather than plumbing a context through the
// walker.
func installSignalHandler(log *applog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("interrupted, exiting")
		log.Close()
		os.Exit(130)
	}()
}
