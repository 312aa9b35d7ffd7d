package main

import (
	"github.com/spf13/cobra"

	"renorm/internal/config"
	"renorm/internal/logging"
	"renorm/internal/orchestrator"
	"renorm/internal/output"
)

func newRootCmd() *cobra.Command {
	var opts config.RunOptions
	var noDryRun bool

	cmd := &cobra.Command{
		Use:   "renorm <path>",
		Short: "Normalize file and folder names to a standard format",
		Long: `renorm rewrites file and folder names to a canonical lowercase,
underscore-separated form. Names in non-Latin scripts are preserved
verbatim, and gitignore-style patterns from an ignore file exclude
entries from the run.

By default renorm only shows the rename plan. Mutating the filesystem
requires both --no-dry-run and --confirm.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Root = args[0]
			opts.DryRun = !noDryRun
			logging.Setup(opts.Verbose)

			out := output.New(outputConfig(opts.Verbose))
			if err := runNormalize(opts, out); err != nil {
				out.Error("%v", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Recursive, "nested", "n", false, "process subdirectories recursively")
	cmd.Flags().BoolVar(&noDryRun, "no-dry-run", false, "disable dry run mode")
	cmd.Flags().BoolVar(&opts.Confirm, "confirm", false, "confirm and actually perform the renames (requires --no-dry-run)")
	cmd.Flags().StringVarP(&opts.IgnoreFile, "ignore", "i", "", "ignore file with exclusion patterns (default: .ignore)")
	cmd.Flags().StringVar(&opts.ReportDir, "report", "", "directory to save plan and report files")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newWatchCmd())
	return cmd
}

func outputConfig(verbose bool) output.Config {
	cfg := output.DefaultConfig()
	cfg.Verbose = verbose
	return cfg
}

// runNormalize executes one run and prints the plan and outcome.
func runNormalize(opts config.RunOptions, out *output.Output) error {
	out.Info("Scanning files and directories...")

	summary, err := orchestrator.Run(opts, func(considered int) {
		out.Progress(considered)
	})
	if err != nil {
		return err
	}
	out.EndProgress(summary.Considered, len(summary.Planned))

	if summary.IgnoreFile != "" {
		out.Verbose("Loaded ignore patterns from %s", summary.IgnoreFile)
	}
	for _, rej := range summary.Rejected {
		out.Warn("%s", rej.Warning())
	}

	if summary.AlreadyNormalized {
		out.Info("All names are already normalized!")
		return nil
	}
	if len(summary.Planned) == 0 {
		// Every candidate collided; the warnings above tell the story.
		return nil
	}

	prefix := ""
	if !opts.ShouldCommit() {
		prefix = "DRY RUN - "
	}
	out.Info("")
	out.Info("%sFound %d item(s) to rename:", prefix, len(summary.Planned))
	for _, op := range summary.Planned {
		out.Info("  %s", op)
	}
	if summary.PlanPath != "" {
		out.Info("Plan saved to: %s", summary.PlanPath)
	}

	switch {
	case summary.Committed:
		out.Info("")
		out.Info("Renamed %d item(s) successfully.", len(summary.Applied))
		if summary.HasErrors() {
			out.Error("Failed to rename %d item(s).", len(summary.Failures))
		}
	case opts.DryRun:
		out.Info("")
		out.Info("Dry run mode: No changes were made. Use --no-dry-run --confirm to apply changes.")
	default:
		out.Info("")
		out.Info("No changes were made. Use --confirm to actually perform the renames.")
	}
	return nil
}
