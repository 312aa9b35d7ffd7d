package orchestrator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"renorm/internal/config"
)

// mkTree creates files (with placeholder content) and directories under root.
func mkTree(t *testing.T, root string, dirs []string, files map[string]string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func exists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Lstat(path)
	if err == nil {
		return true
	}
	if os.IsNotExist(err) {
		return false
	}
	t.Fatal(err)
	return false
}

func TestRunDryRunScenario(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, nil, map[string]string{
		"My-Résumé.PDF": "resume",
		"日本語.txt":       "cjk",
		"debug.log":     "log",
		".ignore":       "*.log\n",
	})

	summary, err := Run(config.RunOptions{Root: root, DryRun: true}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.IgnoreFile != filepath.Join(root, ".ignore") {
		t.Errorf("IgnoreFile = %q", summary.IgnoreFile)
	}
	// The ignore file itself is excluded; the ignored log is still walked.
	if summary.Considered != 3 {
		t.Errorf("Considered = %d, want 3", summary.Considered)
	}
	if len(summary.Planned) != 1 {
		t.Fatalf("Planned = %v, want exactly one operation", summary.Planned)
	}
	op := summary.Planned[0]
	if op.Source != filepath.Join(root, "My-Résumé.PDF") || op.Target != filepath.Join(root, "my_resume.pdf") {
		t.Errorf("unexpected operation: %s", op.String())
	}
	if summary.Committed {
		t.Error("dry run must not commit")
	}

	// Nothing on disk may change.
	for _, name := range []string{"My-Résumé.PDF", "日本語.txt", "debug.log", ".ignore"} {
		if !exists(t, filepath.Join(root, name)) {
			t.Errorf("%s disappeared during dry run", name)
		}
	}
	if exists(t, filepath.Join(root, "my_resume.pdf")) {
		t.Error("target created during dry run")
	}
}

func TestRunCommitAppliesRenames(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, []string{"Dir A"}, map[string]string{
		"My File.txt": "hello",
	})

	summary, err := Run(config.RunOptions{Root: root, Recursive: true, DryRun: false, Confirm: true}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !summary.Committed {
		t.Fatal("expected a committed run")
	}
	if len(summary.Applied) != 2 || summary.HasErrors() {
		t.Fatalf("Applied = %v, Failures = %v", summary.Applied, summary.Failures)
	}
	if !exists(t, filepath.Join(root, "dir_a")) || !exists(t, filepath.Join(root, "my_file.txt")) {
		t.Error("renamed entries missing on disk")
	}
	if exists(t, filepath.Join(root, "Dir A")) || exists(t, filepath.Join(root, "My File.txt")) {
		t.Error("original entries still present after commit")
	}
	data, err := os.ReadFile(filepath.Join(root, "my_file.txt"))
	if err != nil || string(data) != "hello" {
		t.Errorf("content not preserved: %q, %v", data, err)
	}
}

func TestRunWithoutConfirmationStaysReadOnly(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, nil, map[string]string{"My File.txt": "x"})

	summary, err := Run(config.RunOptions{Root: root, DryRun: false, Confirm: false}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Committed {
		t.Error("run committed without confirmation")
	}
	if len(summary.Planned) != 1 {
		t.Errorf("plan should still be produced: %v", summary.Planned)
	}
	if !exists(t, filepath.Join(root, "My File.txt")) {
		t.Error("file was renamed without confirmation")
	}
}

func TestRunAlreadyNormalized(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, []string{"dir_a"}, map[string]string{"my_file.txt": "x"})

	summary, err := Run(config.RunOptions{Root: root, Recursive: true, DryRun: true}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !summary.AlreadyNormalized {
		t.Errorf("AlreadyNormalized = false, Planned = %v", summary.Planned)
	}
}

func TestRunRecordsRejections(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, nil, map[string]string{
		"My File.txt": "new",
		"my_file.txt": "existing",
	})

	summary, err := Run(config.RunOptions{Root: root, DryRun: true}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(summary.Planned) != 0 {
		t.Errorf("conflicting rename should not be planned: %v", summary.Planned)
	}
	if len(summary.Rejected) != 1 {
		t.Fatalf("Rejected = %v, want one rejection", summary.Rejected)
	}
	if summary.Rejected[0].Target != filepath.Join(root, "my_file.txt") {
		t.Errorf("rejection target = %q", summary.Rejected[0].Target)
	}
	if summary.AlreadyNormalized {
		t.Error("a rejected plan is not an already-normalized tree")
	}
}

func TestRunInvalidRoot(t *testing.T) {
	_, err := Run(config.RunOptions{Root: filepath.Join(t.TempDir(), "missing")}, nil)
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Type != config.RootNotFound {
		t.Fatalf("expected RootNotFound, got %v", err)
	}
}

func TestRunWritesReportFiles(t *testing.T) {
	root := t.TempDir()
	reportDir := filepath.Join(t.TempDir(), "reports")
	mkTree(t, root, nil, map[string]string{"My File.txt": "x"})

	summary, err := Run(config.RunOptions{Root: root, DryRun: true, ReportDir: reportDir}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.ReportPath == "" || !exists(t, summary.ReportPath) {
		t.Errorf("report file missing: %q", summary.ReportPath)
	}
	if summary.PlanPath == "" || !exists(t, summary.PlanPath) {
		t.Errorf("plan file missing: %q", summary.PlanPath)
	}
}

func TestRunProgressCallback(t *testing.T) {
	root := t.TempDir()
	mkTree(t, root, nil, map[string]string{"a.txt": "x", "b.txt": "x", "C.txt": "x"})

	var calls int
	_, err := Run(config.RunOptions{Root: root, DryRun: true}, func(considered int) {
		calls = considered
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("progress saw %d considered entries, want 3", calls)
	}
}
