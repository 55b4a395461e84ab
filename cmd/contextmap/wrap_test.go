package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davidahmann/contextmap/core/session"
)

// The stub stands in for the wrapped program twice: once as the recorded
// child, once as the cli collaborator summarizing the session.
const stubScript = `#!/bin/sh
if [ "$1" = "-p" ]; then
  echo "<html><section id=\"anchor\">left off here</section></html>"
  exit 0
fi
echo "stub session output"
exit 7
`

func TestRunWrapEndToEnd(t *testing.T) {
	workdir := t.TempDir()
	withWorkingDir(t, workdir)

	stub := filepath.Join(t.TempDir(), "claude-stub")
	if err := os.WriteFile(stub, []byte(stubScript), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("CONTEXTMAP_REAL_BIN", stub)
	t.Setenv("CONTEXTMAP_COLLABORATOR", "cli")

	if code := runWrap(nil); code != 7 {
		t.Fatalf("wrapper must propagate the child exit code, got %d", code)
	}

	logsDir := filepath.Join(workdir, ".context", "logs")
	logs, err := filepath.Glob(filepath.Join(logsDir, "session_*.log"))
	if err != nil || len(logs) != 1 {
		t.Fatalf("expected one session log, got %v (%v)", logs, err)
	}
	raw, err := os.ReadFile(logs[0])
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), "stub session output") {
		t.Fatalf("log missing child output: %q", raw)
	}

	manifest, err := session.ReadManifest(session.ManifestPath(logs[0]))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if manifest.ExitCode != 7 || manifest.Command != stub {
		t.Fatalf("unexpected manifest: %+v", manifest)
	}

	summary, err := os.ReadFile(filepath.Join(workdir, ".context", "session_summary.html"))
	if err != nil {
		t.Fatalf("read context map: %v", err)
	}
	if !strings.Contains(string(summary), "left off here") {
		t.Fatalf("context map missing collaborator output: %q", summary)
	}
}

func TestRunWrapSpawnFailure(t *testing.T) {
	workdir := t.TempDir()
	withWorkingDir(t, workdir)
	t.Setenv("CONTEXTMAP_REAL_BIN", filepath.Join(t.TempDir(), "missing"))

	if code := runWrap(nil); code != exitFailure {
		t.Fatalf("spawn failure: expected %d got %d", exitFailure, code)
	}
}
