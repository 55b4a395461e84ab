package retention

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFileWithMTime(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte("log data\n"), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

func TestSweepDeletesOnlyAgedLogs(t *testing.T) {
	dir := t.TempDir()
	oldLog := filepath.Join(dir, "session_old.log")
	newLog := filepath.Join(dir, "session_new.log")
	unrelated := filepath.Join(dir, "notes.txt")

	writeFileWithMTime(t, oldLog, 5*24*time.Hour)
	writeFileWithMTime(t, newLog, time.Hour)
	writeFileWithMTime(t, unrelated, 30*24*time.Hour)

	deleted := Sweep(dir, DefaultMaxAge, time.Now())
	if deleted != 1 {
		t.Fatalf("expected 1 deletion, got %d", deleted)
	}
	if _, err := os.Stat(oldLog); !os.IsNotExist(err) {
		t.Fatalf("expected %s deleted", oldLog)
	}
	if _, err := os.Stat(newLog); err != nil {
		t.Fatalf("expected %s kept: %v", newLog, err)
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Fatalf("expected non-log file kept regardless of age: %v", err)
	}
}

func TestSweepSkipsNonMatchingLogNames(t *testing.T) {
	dir := t.TempDir()
	stray := filepath.Join(dir, "other.log")
	writeFileWithMTime(t, stray, 10*24*time.Hour)

	if deleted := Sweep(dir, DefaultMaxAge, time.Now()); deleted != 0 {
		t.Fatalf("expected 0 deletions, got %d", deleted)
	}
	if _, err := os.Stat(stray); err != nil {
		t.Fatalf("expected file outside naming convention kept: %v", err)
	}
}

func TestSweepMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	if deleted := Sweep(missing, DefaultMaxAge, time.Now()); deleted != 0 {
		t.Fatalf("expected missing directory to be a no-op, got %d deletions", deleted)
	}
}

func TestSweepIgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "session_archive.log")
	if err := os.Mkdir(sub, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if deleted := Sweep(dir, 0, time.Now()); deleted != 0 {
		t.Fatalf("expected directories untouched, got %d deletions", deleted)
	}
	if _, err := os.Stat(sub); err != nil {
		t.Fatalf("expected subdirectory kept: %v", err)
	}
}
