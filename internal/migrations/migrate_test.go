package migrations

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLatestVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000001_init.up.sql",
		"000001_init.down.sql",
		"000007_scores.up.sql",
		"000012_notes.down.sql",
		"README.md",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "000099_dir.up.sql"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := latestVersion(dir); got != 7 {
		t.Errorf("expected latest up version 7, got %d", got)
	}
}

func TestLatestVersionMissingDir(t *testing.T) {
	if got := latestVersion(filepath.Join(t.TempDir(), "nope")); got != 0 {
		t.Errorf("expected 0 for a missing dir, got %d", got)
	}
}

func TestShippedMigrationsPresent(t *testing.T) {
	if got := latestVersion(filepath.Join("..", "..", DefaultDir)); got < 1 {
		t.Errorf("expected at least one shipped migration, got %d", got)
	}
}

func TestRunMigrationsRequiresURL(t *testing.T) {
	if err := RunMigrations("", DefaultDir); err == nil {
		t.Error("expected an error for an empty database URL")
	}
}
