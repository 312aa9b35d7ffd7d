// Package executor applies planned rename operations for renorm.
package executor

import (
	"fmt"
	"os"

	"renorm/internal/planner"
)

// OperationError pairs a failed operation with its cause.
type OperationError struct {
	Op  planner.Operation
	Err error
}

func (e OperationError) Error() string {
	return fmt.Sprintf("error renaming %s -> %s: %v", e.Op.Source, e.Op.Target, e.Err)
}

func (e OperationError) Unwrap() error {
	return e.Err
}

// Result tallies the outcome of committing a plan.
type Result struct {
	Applied  []planner.Operation
	Failures []OperationError
}

// Succeeded returns the number of operations applied.
func (r *Result) Succeeded() int {
	return len(r.Applied)
}

// Failed returns the number of operations that could not be applied.
func (r *Result) Failed() int {
	return len(r.Failures)
}

// Commit applies each operation independently, in plan order. A failure on
// one entry (vanished source, permission, a race creating the target) is
// recorded and does not abort the remaining operations. Each os.Rename is
// atomic, so a failed operation leaves its source exactly as it was.
func Commit(ops []planner.Operation) *Result {
	result := &Result{}
	for _, op := range ops {
		if err := os.Rename(op.Source, op.Target); err != nil {
			result.Failures = append(result.Failures, OperationError{Op: op, Err: err})
			continue
		}
		result.Applied = append(result.Applied, op)
	}
	return result
}
