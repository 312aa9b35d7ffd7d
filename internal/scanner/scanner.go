// Package scanner handles directory traversal for renorm.
package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// RootNotFound indicates the root path does not exist.
	RootNotFound ScanErrorType = "ROOT_NOT_FOUND"
	// NotADirectory indicates the root path is not a directory.
	NotADirectory ScanErrorType = "NOT_A_DIRECTORY"
	// PermissionDenied indicates insufficient permissions to read the root.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
)

// ScanError represents a fatal error raised before traversal begins.
// Permission failures below the root are non-fatal and surface as warnings
// on the Result instead.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Candidate represents one filesystem entry under consideration during a
// single traversal.
type Candidate struct {
	AbsolutePath string
	// RelParts holds the path segments relative to the traversal root.
	RelParts []string
	IsDir    bool
}

// Name returns the final path segment of the candidate.
func (c Candidate) Name() string {
	return c.RelParts[len(c.RelParts)-1]
}

// Depth returns the candidate's path-segment depth below the root.
func (c Candidate) Depth() int {
	return len(c.RelParts)
}

// Options configures a traversal.
type Options struct {
	// Recursive descends into subdirectories. When false only the root's
	// immediate children are considered.
	Recursive bool
	// Prune is consulted for every entry. A pruned directory is removed
	// from the walk entirely; its contents are never visited. A pruned
	// file is dropped as a candidate. Nil means nothing is pruned.
	Prune func(path string, isDir bool) bool
	// Exclude drops a single entry by exact absolute path without pruning
	// its siblings. Used to keep the resolved ignore file itself out of
	// the candidate set.
	Exclude string
	// Progress, when set, is invoked after each entry is considered.
	Progress func(considered int)
}

// Result holds the surviving candidates of a traversal.
type Result struct {
	Dirs       []Candidate
	Files      []Candidate
	Considered int
	Warnings   []string
}

// Scan walks the tree rooted at root top-down and returns the candidates
// that survive pruning. Directory and file order within each parent follows
// the directory listing order, so traversal order is deterministic.
func Scan(root string, opts Options) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &ScanError{Type: RootNotFound, Path: root, Err: err}
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ScanError{Type: RootNotFound, Path: root, Err: err}
		}
		if errors.Is(err, os.ErrPermission) {
			return nil, &ScanError{Type: PermissionDenied, Path: root, Err: err}
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, &ScanError{Type: NotADirectory, Path: root, Err: errors.New("path is not a directory")}
	}

	s := &scan{opts: opts, result: &Result{}}
	s.walk(absRoot, nil)
	return s.result, nil
}

type scan struct {
	opts   Options
	result *Result
}

// walk visits one directory level. parts holds the segments of dir relative
// to the root.
func (s *scan) walk(dir string, parts []string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Inaccessible subtrees are skipped, not fatal. The cause is kept
		// in the warning; not every read failure is a permission problem.
		s.result.Warnings = append(s.result.Warnings,
			fmt.Sprintf("cannot access %s: %v", dir, err))
		return
	}

	for _, entry := range entries {
		fullPath := filepath.Join(dir, entry.Name())
		if s.opts.Exclude != "" && fullPath == s.opts.Exclude {
			continue
		}

		relParts := append(append([]string(nil), parts...), entry.Name())
		isDir := entry.IsDir()

		if isDir && s.opts.Prune != nil && s.opts.Prune(fullPath, true) {
			// Pruned directories are removed from the walk entirely.
			continue
		}

		s.result.Considered++
		if s.opts.Progress != nil {
			s.opts.Progress(s.result.Considered)
		}

		if isDir {
			s.result.Dirs = append(s.result.Dirs, Candidate{
				AbsolutePath: fullPath,
				RelParts:     relParts,
				IsDir:        true,
			})
			if s.opts.Recursive {
				s.walk(fullPath, relParts)
			}
			continue
		}

		// Files have no children, so a match just drops the candidate.
		if s.opts.Prune != nil && s.opts.Prune(fullPath, false) {
			continue
		}
		s.result.Files = append(s.result.Files, Candidate{
			AbsolutePath: fullPath,
			RelParts:     relParts,
		})
	}
}
