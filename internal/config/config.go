// Package config handles run options and ignore-file resolution for renorm.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	RootNotFound  ConfigErrorType = "ROOT_NOT_FOUND"
	NotADirectory ConfigErrorType = "NOT_A_DIRECTORY"
)

// ConfigError is a fatal configuration problem, reported before any
// planning starts.
type ConfigError struct {
	Type ConfigErrorType
	Path string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case RootNotFound:
		return fmt.Sprintf("path %q does not exist", e.Path)
	case NotADirectory:
		return fmt.Sprintf("%q is not a directory", e.Path)
	default:
		return fmt.Sprintf("configuration error: %s", e.Path)
	}
}

// DefaultIgnoreName is the ignore file looked up when no explicit path is
// given.
const DefaultIgnoreName = ".ignore"

// RunOptions holds all settings for one normalization run.
type RunOptions struct {
	Root       string // target root directory
	Recursive  bool   // process subdirectories
	DryRun     bool   // plan only, never touch the filesystem
	Confirm    bool   // secondary confirmation required to mutate
	IgnoreFile string // explicit ignore-file path, empty for default lookup
	ReportDir  string // directory for report files, empty to disable
	Verbose    bool
}

// Validate checks the target root before planning starts. An invalid root
// is fatal; the planner never begins a partial scan against it.
func (o *RunOptions) Validate() error {
	info, err := os.Stat(o.Root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &ConfigError{Type: RootNotFound, Path: o.Root}
		}
		return err
	}
	if !info.IsDir() {
		return &ConfigError{Type: NotADirectory, Path: o.Root}
	}
	return nil
}

// ShouldCommit reports whether the run is allowed to mutate the filesystem.
// Both the dry-run flag must be disabled and the confirmation flag set;
// either one alone keeps the run read-only.
func (o *RunOptions) ShouldCommit() bool {
	return !o.DryRun && o.Confirm
}

// ResolveIgnoreFile locates the ignore file for a run. The search order is:
// the explicit path as given, then the same name next to the executable,
// then under the target root. It returns the empty string when nothing is
// found; running without an ignore file is not an error.
func ResolveIgnoreFile(explicit, root string) string {
	name := explicit
	if name == "" {
		name = DefaultIgnoreName
	}

	if filepath.IsAbs(name) || fileExists(name) {
		if fileExists(name) {
			return name
		}
		return ""
	}

	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), name)
		if fileExists(candidate) {
			return candidate
		}
	}

	candidate := filepath.Join(root, name)
	if fileExists(candidate) {
		return candidate
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
