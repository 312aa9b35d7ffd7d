package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"renorm/internal/config"
	"renorm/internal/ignore"
	"renorm/internal/logging"
	"renorm/internal/orchestrator"
	"renorm/internal/output"
	"renorm/internal/scanner"
	"renorm/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var opts config.RunOptions
	var debounceSeconds int

	cmd := &cobra.Command{
		Use:   "watch <path>",
		Short: "Watch a directory and report names that need normalization",
		Long: `watch monitors the target directory and, each time activity settles,
re-plans in dry-run mode and reports entries whose names are not in
normalized form. Watch mode never renames anything.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Root = args[0]
			// Watch mode is read-only by construction.
			opts.DryRun = true
			opts.Confirm = false
			logging.Setup(opts.Verbose)

			out := output.New(outputConfig(opts.Verbose))
			if err := runWatch(opts, debounceSeconds, out); err != nil {
				out.Error("%v", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Recursive, "nested", "n", false, "watch and plan subdirectories recursively")
	cmd.Flags().StringVarP(&opts.IgnoreFile, "ignore", "i", "", "ignore file with exclusion patterns (default: .ignore)")
	cmd.Flags().IntVar(&debounceSeconds, "debounce", 2, "seconds of quiet before re-planning")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	return cmd
}

func runWatch(opts config.RunOptions, debounceSeconds int, out *output.Output) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	absRoot, err := filepath.Abs(opts.Root)
	if err != nil {
		return err
	}
	logger := logging.GetLogger("watch")

	// The event filter reuses the run's ignore patterns so churn in
	// ignored entries never triggers a re-plan.
	var patterns []ignore.Pattern
	if path := config.ResolveIgnoreFile(opts.IgnoreFile, absRoot); path != "" {
		patterns, err = ignore.LoadFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("could not read ignore file")
		}
	}
	matcher := ignore.NewMatcher(absRoot, patterns)

	var w *watcher.Watcher
	var mu sync.Mutex
	replan := func() {
		mu.Lock()
		defer mu.Unlock()

		// Directories created since startup must join the watch set, or
		// changes inside them would go unseen. Re-adding known paths is a
		// no-op.
		if opts.Recursive && w != nil {
			if dirs, err := watchDirs(absRoot, true, matcher); err != nil {
				logger.Warn().Err(err).Msg("could not refresh watch list")
			} else if err := w.Add(dirs); err != nil {
				logger.Warn().Err(err).Msg("could not extend watch list")
			}
		}

		summary, err := orchestrator.Run(opts, nil)
		if err != nil {
			out.Error("%v", err)
			return
		}
		if len(summary.Planned) == 0 {
			out.Verbose("All names are already normalized.")
			return
		}
		out.Info("%d item(s) need renaming:", len(summary.Planned))
		for _, op := range summary.Planned {
			out.Info("  %s", op)
		}
	}

	w = watcher.New(&watcher.Config{
		DebounceSeconds: debounceSeconds,
		Filter:          matcher.Matches,
	}, replan)

	dirs, err := watchDirs(absRoot, opts.Recursive, matcher)
	if err != nil {
		return err
	}
	if err := w.Start(dirs); err != nil {
		return err
	}

	out.Info("Watching %s (press Ctrl-C to stop)...", absRoot)
	replan()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	summary := w.Stop()
	out.Info("Watched for %s: %d event(s), %d re-plan(s).",
		summary.Duration.Round(time.Second), summary.EventsSeen, summary.Replans)
	return nil
}

// watchDirs lists the directories to register with fsnotify: the root and,
// in recursive mode, every non-ignored subdirectory present at startup.
func watchDirs(absRoot string, recursive bool, matcher *ignore.Matcher) ([]string, error) {
	dirs := []string{absRoot}
	if !recursive {
		return dirs, nil
	}
	result, err := scanner.Scan(absRoot, scanner.Options{
		Recursive: true,
		Prune:     matcher.Matches,
	})
	if err != nil {
		return nil, err
	}
	for _, d := range result.Dirs {
		dirs = append(dirs, d.AbsolutePath)
	}
	return dirs, nil
}
