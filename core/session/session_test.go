package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func readFileString(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(content)
}

func writeFileString(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLogFileNameFormat(t *testing.T) {
	startedAt := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	id := NewID()
	name := LogFileName(startedAt, id)

	if !strings.HasPrefix(name, "session_20250314_092653_") {
		t.Fatalf("unexpected log name prefix: %q", name)
	}
	if !strings.HasSuffix(name, ".log") {
		t.Fatalf("log name must end in .log: %q", name)
	}
}

func TestLogFileNameDisambiguatesSameSecond(t *testing.T) {
	startedAt := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	first := LogFileName(startedAt, NewID())
	second := LogFileName(startedAt, NewID())
	if first == second {
		t.Fatalf("two sessions in the same second collided: %q", first)
	}
}

func TestManifestPath(t *testing.T) {
	got := ManifestPath("/tmp/.context/logs/session_20250314_092653_ab12cd34.log")
	want := "/tmp/.context/logs/session_20250314_092653_ab12cd34.json"
	if got != want {
		t.Fatalf("ManifestPath = %q, want %q", got, want)
	}
}

func TestManifestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session_test.json")
	manifest := Manifest{
		SessionID:     NewID(),
		StartedAt:     time.Now(),
		Command:       "/usr/local/bin/claude",
		Args:          []string{"--model", "sonnet"},
		LogPath:       "/tmp/.context/logs/session_test.log",
		ExitCode:      0,
		BytesCaptured: 4096,
		DurationMS:    1500,
	}

	if err := WriteManifest(path, manifest); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	loaded, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if loaded.Command != manifest.Command {
		t.Fatalf("command mismatch: %q", loaded.Command)
	}
	if loaded.BytesCaptured != manifest.BytesCaptured {
		t.Fatalf("bytes captured mismatch: %d", loaded.BytesCaptured)
	}
	if loaded.ManifestDigest == "" {
		t.Fatalf("expected a manifest digest")
	}
	if loaded.SchemaID != manifestSchemaID {
		t.Fatalf("schema id not stamped: %q", loaded.SchemaID)
	}
}

func TestReadManifestDetectsTampering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session_test.json")
	if err := WriteManifest(path, Manifest{SessionID: NewID(), Command: "claude", LogPath: "x.log"}); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	tampered := strings.Replace(readFileString(t, path), "claude", "edited", 1)
	writeFileString(t, path, tampered)

	if _, err := ReadManifest(path); err == nil {
		t.Fatalf("expected digest mismatch for tampered manifest")
	}
}
