// Package output handles CLI output formatting for renorm, including
// verbose mode and the scanning progress indicator.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// progressInterval controls how often the scanning progress line is
// refreshed, in considered entries.
const progressInterval = 1000

// Config holds output configuration.
type Config struct {
	Verbose   bool      // Enable verbose output
	Writer    io.Writer // Output destination (default: os.Stdout)
	ErrWriter io.Writer // Error output destination (default: os.Stderr)
	IsTTY     bool      // Whether output is a terminal
}

// DefaultConfig returns a Config with TTY detection against stdout.
func DefaultConfig() Config {
	return Config{
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		IsTTY:     term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// Output handles formatted output with verbose and progress support.
type Output struct {
	config         Config
	progressActive bool
}

// New creates a new Output instance with the given configuration.
func New(config Config) *Output {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}
	if config.ErrWriter == nil {
		config.ErrWriter = os.Stderr
	}
	return &Output{config: config}
}

// Info prints a message to stdout.
func (o *Output) Info(format string, args ...interface{}) {
	o.clearProgress()
	fmt.Fprintf(o.config.Writer, format+"\n", args...)
}

// Verbose prints a message only when verbose mode is enabled.
func (o *Output) Verbose(format string, args ...interface{}) {
	if !o.config.Verbose {
		return
	}
	o.Info(format, args...)
}

// Warn prints a warning to stderr.
func (o *Output) Warn(format string, args ...interface{}) {
	o.clearProgress()
	fmt.Fprintf(o.config.ErrWriter, "Warning: "+format+"\n", args...)
}

// Error prints an error to stderr.
func (o *Output) Error(format string, args ...interface{}) {
	o.clearProgress()
	fmt.Fprintf(o.config.ErrWriter, "Error: "+format+"\n", args...)
}

// Progress refreshes the scanning progress line every thousand entries.
// On a terminal the line is rewritten in place; otherwise it is suppressed
// so piped output stays clean.
func (o *Output) Progress(considered int) {
	if considered%progressInterval != 0 {
		return
	}
	if !o.config.IsTTY {
		return
	}
	o.progressActive = true
	fmt.Fprintf(o.config.Writer, "\rProcessed %d items...", considered)
}

// EndProgress prints the final progress totals and terminates the
// in-place line.
func (o *Output) EndProgress(considered, found int) {
	o.clearProgress()
	fmt.Fprintf(o.config.Writer, "Processed %d items... (found %d to rename)\n", considered, found)
}

// clearProgress wipes the in-place progress line if one is active.
func (o *Output) clearProgress() {
	if !o.progressActive {
		return
	}
	o.progressActive = false
	fmt.Fprint(o.config.Writer, "\r"+strings.Repeat(" ", 70)+"\r")
}

// IsVerbose returns whether verbose mode is enabled.
func (o *Output) IsVerbose() bool {
	return o.config.Verbose
}
