package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		opts := RunOptions{Root: t.TempDir()}
		if err := opts.Validate(); err != nil {
			t.Errorf("Validate failed for a valid root: %v", err)
		}
	})

	t.Run("missing root", func(t *testing.T) {
		opts := RunOptions{Root: filepath.Join(t.TempDir(), "nope")}
		err := opts.Validate()
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) || cfgErr.Type != RootNotFound {
			t.Fatalf("expected RootNotFound, got %v", err)
		}
	})

	t.Run("root is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		err := (&RunOptions{Root: path}).Validate()
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) || cfgErr.Type != NotADirectory {
			t.Fatalf("expected NotADirectory, got %v", err)
		}
	})
}

func TestShouldCommit(t *testing.T) {
	tests := []struct {
		name    string
		dryRun  bool
		confirm bool
		want    bool
	}{
		{"default is read-only", true, false, false},
		{"confirm alone is not enough", true, true, false},
		{"no-dry-run alone is not enough", false, false, false},
		{"both flags required", false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := RunOptions{DryRun: tt.dryRun, Confirm: tt.confirm}
			if got := opts.ShouldCommit(); got != tt.want {
				t.Errorf("ShouldCommit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveIgnoreFile(t *testing.T) {
	t.Run("explicit absolute path wins", func(t *testing.T) {
		dir := t.TempDir()
		explicit := filepath.Join(dir, "custom.ignore")
		if err := os.WriteFile(explicit, []byte("*.log\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if got := ResolveIgnoreFile(explicit, t.TempDir()); got != explicit {
			t.Errorf("ResolveIgnoreFile = %q, want %q", got, explicit)
		}
	})

	t.Run("falls back to target root", func(t *testing.T) {
		root := t.TempDir()
		path := filepath.Join(root, DefaultIgnoreName)
		if err := os.WriteFile(path, []byte("*.log\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if got := ResolveIgnoreFile("", root); got != path {
			t.Errorf("ResolveIgnoreFile = %q, want %q", got, path)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		if got := ResolveIgnoreFile("", t.TempDir()); got != "" {
			t.Errorf("ResolveIgnoreFile = %q, want empty", got)
		}
	})

	t.Run("missing explicit absolute path yields nothing", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "absent.ignore")
		if got := ResolveIgnoreFile(missing, t.TempDir()); got != "" {
			t.Errorf("ResolveIgnoreFile = %q, want empty", got)
		}
	})
}
