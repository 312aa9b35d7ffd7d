// Package report persists rename plans and outcomes for renorm.
// It writes an append-only JSONL event file per run, plus a plain-text plan
// file of "<source> -> <target>" lines for human consumption.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"renorm/internal/planner"
)

// EventType represents the type of report event.
type EventType string

const (
	EventRunStart EventType = "RUN_START"
	EventPlanned  EventType = "PLANNED"
	EventRejected EventType = "REJECTED"
	EventApplied  EventType = "APPLIED"
	EventFailed   EventType = "FAILED"
	EventRunEnd   EventType = "RUN_END"
)

// Event is a single report record.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType EventType         `json:"eventType"`
	Source    string            `json:"source,omitempty"`
	Target    string            `json:"target,omitempty"`
	Detail    string            `json:"detail,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Writer appends events to a timestamped JSONL report file. Writes are
// flushed and synced immediately so a crashed run still leaves a usable
// report.
type Writer struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	path   string
}

// timestamp formats a time the way report filenames embed it.
func timestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// NewWriter creates the report directory if needed and opens a new report
// file named after the current time.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("renorm_report_%s.jsonl", timestamp(time.Now())))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open report file: %w", err)
	}

	return &Writer{
		file:   file,
		writer: bufio.NewWriter(file),
		path:   path,
	}, nil
}

// Path returns the report file location.
func (w *Writer) Path() string {
	return w.path
}

// WriteEvent appends one event as a JSON line and syncs it to disk.
func (w *Writer) WriteEvent(event Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := w.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync event: %w", err)
	}
	return nil
}

// RecordRunStart writes the RUN_START event with the run parameters.
func (w *Writer) RecordRunStart(root string, recursive, dryRun bool) error {
	return w.WriteEvent(Event{
		EventType: EventRunStart,
		Metadata: map[string]string{
			"root":      root,
			"recursive": fmt.Sprintf("%t", recursive),
			"dryRun":    fmt.Sprintf("%t", dryRun),
		},
	})
}

// RecordPlan writes one PLANNED event per operation and one REJECTED event
// per conflict rejection.
func (w *Writer) RecordPlan(plan *planner.Plan) error {
	for _, op := range plan.Operations {
		if err := w.WriteEvent(Event{EventType: EventPlanned, Source: op.Source, Target: op.Target}); err != nil {
			return err
		}
	}
	for _, rej := range plan.Rejected {
		if err := w.WriteEvent(Event{
			EventType: EventRejected,
			Source:    rej.Source,
			Target:    rej.Target,
			Detail:    "target already exists",
		}); err != nil {
			return err
		}
	}
	return nil
}

// RecordApplied writes an APPLIED event for a committed operation.
func (w *Writer) RecordApplied(op planner.Operation) error {
	return w.WriteEvent(Event{EventType: EventApplied, Source: op.Source, Target: op.Target})
}

// RecordFailed writes a FAILED event for an operation that could not be
// committed.
func (w *Writer) RecordFailed(op planner.Operation, cause error) error {
	return w.WriteEvent(Event{
		EventType: EventFailed,
		Source:    op.Source,
		Target:    op.Target,
		Detail:    cause.Error(),
	})
}

// RecordRunEnd writes the RUN_END event with the final tally.
func (w *Writer) RecordRunEnd(succeeded, failed int) error {
	return w.WriteEvent(Event{
		EventType: EventRunEnd,
		Metadata: map[string]string{
			"succeeded": fmt.Sprintf("%d", succeeded),
			"failed":    fmt.Sprintf("%d", failed),
		},
	})
}

// Close flushes buffered data and closes the report file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush on close: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	return nil
}

// WritePlanFile persists the plan as plain "<source> -> <target>" lines in
// a timestamped text file and returns its path.
func WritePlanFile(dir string, ops []planner.Operation) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("rename_plan_%s.txt", timestamp(time.Now())))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create plan file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, op := range ops {
		if _, err := fmt.Fprintln(w, op.String()); err != nil {
			return "", fmt.Errorf("failed to write plan line: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush plan file: %w", err)
	}
	return path, nil
}
