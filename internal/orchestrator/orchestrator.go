// Package orchestrator coordinates the rename-normalization workflow for renorm.
package orchestrator

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"renorm/internal/config"
	"renorm/internal/executor"
	"renorm/internal/ignore"
	"renorm/internal/logging"
	"renorm/internal/planner"
	"renorm/internal/report"
	"renorm/internal/scanner"
)

// Summary represents the overall results of a renorm run.
type Summary struct {
	Root              string
	Considered        int
	Planned           []planner.Operation
	Rejected          []planner.Rejection
	Warnings          []string // non-fatal traversal warnings
	AlreadyNormalized bool     // no entry needed renaming
	Committed         bool     // operations were actually applied
	Applied           []planner.Operation
	Failures          []executor.OperationError
	IgnoreFile        string // resolved ignore file, empty if none
	ReportPath        string // JSONL report file, empty if reporting disabled
	PlanPath          string // text plan file, empty if reporting disabled
}

// HasErrors returns true if any operation failed to apply.
func (s *Summary) HasErrors() bool {
	return len(s.Failures) > 0
}

// Progress is an optional callback invoked after each entry is considered
// during scanning.
type Progress func(considered int)

// Run executes the full workflow: validate the root, resolve and load the
// ignore patterns, scan, plan, and -- only when the options demand it --
// commit. The returned Summary carries the plan as structured data so the
// caller owns all formatting.
func Run(opts config.RunOptions, progress Progress) (*Summary, error) {
	logger := logging.GetLogger("orchestrator")

	// Configuration errors are fatal before any scanning starts.
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	absRoot, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Root: absRoot}

	// Ignore-file resolution: explicit path, then next to the executable,
	// then under the target root. Running without one is fine.
	var patterns []ignore.Pattern
	ignoreFile := config.ResolveIgnoreFile(opts.IgnoreFile, absRoot)
	if ignoreFile != "" {
		patterns, err = ignore.LoadFile(ignoreFile)
		if err != nil {
			logger.Warn().Err(err).Str("path", ignoreFile).Msg("could not read ignore file")
		} else {
			summary.IgnoreFile = ignoreFile
			logger.Debug().Int("patterns", len(patterns)).Str("path", ignoreFile).Msg("loaded ignore patterns")
		}
	}
	matcher := ignore.NewMatcher(absRoot, patterns)

	scanOpts := scanner.Options{
		Recursive: opts.Recursive,
		Prune:     matcher.Matches,
		// The resolved ignore file is tool configuration, not a rename
		// candidate.
		Exclude: summary.IgnoreFile,
	}
	if progress != nil {
		scanOpts.Progress = progress
	}

	scanResult, err := scanner.Scan(absRoot, scanOpts)
	if err != nil {
		return nil, err
	}
	summary.Considered = scanResult.Considered
	summary.Warnings = scanResult.Warnings
	for _, w := range scanResult.Warnings {
		logger.Warn().Msg(w)
	}

	plan := planner.Build(scanResult)
	summary.Planned = plan.Operations
	summary.Rejected = plan.Rejected
	for _, rej := range plan.Rejected {
		logger.Warn().Str("source", rej.Source).Str("target", rej.Target).Msg("target already exists, skipping")
	}

	if len(plan.Operations) == 0 && len(plan.Rejected) == 0 {
		summary.AlreadyNormalized = true
	}

	var reporter *report.Writer
	if opts.ReportDir != "" {
		reporter, err = report.NewWriter(opts.ReportDir)
		if err != nil {
			logger.Warn().Err(err).Msg("could not open report file, continuing without reporting")
		} else {
			defer reporter.Close()
			summary.ReportPath = reporter.Path()
			recordOrWarn(logger, reporter.RecordRunStart(absRoot, opts.Recursive, !opts.ShouldCommit()))
			recordOrWarn(logger, reporter.RecordPlan(plan))
			if planPath, err := report.WritePlanFile(opts.ReportDir, plan.Operations); err != nil {
				logger.Warn().Err(err).Msg("could not write plan file")
			} else {
				summary.PlanPath = planPath
			}
		}
	}

	if !opts.ShouldCommit() {
		if reporter != nil {
			recordOrWarn(logger, reporter.RecordRunEnd(0, 0))
		}
		return summary, nil
	}

	result := executor.Commit(plan.Operations)
	summary.Committed = true
	summary.Applied = result.Applied
	summary.Failures = result.Failures
	if reporter != nil {
		for _, op := range result.Applied {
			recordOrWarn(logger, reporter.RecordApplied(op))
		}
		for _, f := range result.Failures {
			recordOrWarn(logger, reporter.RecordFailed(f.Op, f.Err))
		}
		recordOrWarn(logger, reporter.RecordRunEnd(result.Succeeded(), result.Failed()))
	}
	for _, f := range result.Failures {
		logger.Warn().Str("source", f.Op.Source).Str("target", f.Op.Target).Err(f.Err).Msg("rename failed")
	}

	return summary, nil
}

// recordOrWarn downgrades report-write failures to warnings; reporting is
// best-effort and never aborts a run.
func recordOrWarn(logger zerolog.Logger, err error) {
	if err != nil {
		logger.Warn().Err(err).Msg("report write failed")
	}
}
