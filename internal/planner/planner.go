// Package planner computes conflict-free batch rename plans for renorm.
package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"renorm/internal/normalizer"
	"renorm/internal/scanner"
)

// Operation is one planned rename. Source is an existing filesystem entry
// and Target is its normalized location within the same parent directory.
type Operation struct {
	Source string
	Target string
}

// String renders the operation as a plan line.
func (o Operation) String() string {
	return fmt.Sprintf("%s -> %s", o.Source, o.Target)
}

// Rejection records a candidate excluded from the plan because its target
// name was already taken, on disk or within the current batch.
type Rejection struct {
	Source string
	Target string
}

// Warning renders the rejection the way the CLI reports it.
func (r Rejection) Warning() string {
	return fmt.Sprintf("target already exists, skipping: %s -> %s", r.Source, r.Target)
}

// Plan is the ordered, collision-free operation list produced from one
// traversal, plus bookkeeping for reporting.
type Plan struct {
	Operations []Operation
	Rejected   []Rejection
	Considered int
}

// candidate is an entry that needs renaming, carried between the
// normalizing and resolving phases.
type candidate struct {
	source string
	target string // target name, not path
	depth  int
}

// dirState is the per-parent-directory conflict scratch state. It is built
// lazily the first time a parent is touched during resolution.
type dirState struct {
	existing map[string]string   // name -> absolute path of entries on disk
	assigned map[string]struct{} // target names claimed earlier in this batch
}

// Build turns scan results into a rename plan.
//
// Directories are resolved before files, sorted by descending path depth so
// that the deepest rename is decided first: a parent's rename is planned
// against its pre-rename path while descendants still carry their original
// absolute paths. Within one depth, and for files, traversal order is kept,
// which makes collision tie-breaking deterministic (first encountered wins).
func Build(scanResult *scanner.Result) *Plan {
	plan := &Plan{Considered: scanResult.Considered}

	dirs := collect(scanResult.Dirs, false)
	files := collect(scanResult.Files, true)

	sort.SliceStable(dirs, func(i, j int) bool {
		return dirs[i].depth > dirs[j].depth
	})

	states := make(map[string]*dirState)
	for _, c := range append(dirs, files...) {
		parent := filepath.Dir(c.source)
		st := states[parent]
		if st == nil {
			st = loadDirState(parent)
			states[parent] = st
		}

		targetPath := filepath.Join(parent, c.target)
		if existsDistinct(st, c.source, c.target, targetPath) {
			plan.Rejected = append(plan.Rejected, Rejection{Source: c.source, Target: targetPath})
			continue
		}
		if _, taken := st.assigned[c.target]; taken {
			plan.Rejected = append(plan.Rejected, Rejection{Source: c.source, Target: targetPath})
			continue
		}

		st.assigned[c.target] = struct{}{}
		plan.Operations = append(plan.Operations, Operation{Source: c.source, Target: targetPath})
	}

	return plan
}

// collect runs the normalizing phase: candidates whose normalized name
// equals their current name need no operation and are dropped.
func collect(entries []scanner.Candidate, keepExtension bool) []candidate {
	var out []candidate
	for _, e := range entries {
		name := e.Name()
		target := normalizer.Normalize(name, keepExtension)
		if target == name {
			continue
		}
		out = append(out, candidate{
			source: e.AbsolutePath,
			target: target,
			depth:  e.Depth(),
		})
	}
	return out
}

// loadDirState scans a parent directory's current entries once. An
// unreadable parent yields empty state; the existence check below still
// guards against collisions via Lstat.
func loadDirState(parent string) *dirState {
	st := &dirState{
		existing: make(map[string]string),
		assigned: make(map[string]struct{}),
	}
	entries, err := os.ReadDir(parent)
	if err != nil {
		return st
	}
	for _, e := range entries {
		st.existing[e.Name()] = filepath.Join(parent, e.Name())
	}
	return st
}

// existsDistinct reports whether targetPath denotes an existing entry that
// is distinct from source. Identity is compared via os.SameFile rather than
// string equality: on a case-insensitive filesystem "Foo.txt" and "foo.txt"
// are the same entry, and renaming an entry onto its own other casing must
// not be rejected as a self-collision.
func existsDistinct(st *dirState, source, targetName, targetPath string) bool {
	if existingPath, ok := st.existing[targetName]; ok {
		// An exact-name listing hit is a distinct entry: the source is
		// listed under a different name in the same parent.
		return filepath.Clean(existingPath) != filepath.Clean(source)
	}

	targetInfo, err := os.Lstat(targetPath)
	if err != nil {
		return false
	}
	sourceInfo, err := os.Lstat(source)
	if err != nil {
		return true
	}
	return !os.SameFile(targetInfo, sourceInfo)
}
