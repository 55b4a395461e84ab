package summarize

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claude-stub")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCLISummarizeReturnsStdout(t *testing.T) {
	stub := writeStub(t, `echo "<html>report</html>"`)
	c := CLI{Executable: stub}

	got, err := c.Summarize(context.Background(), Request{Transcript: "transcript"})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if strings.TrimSpace(got) != "<html>report</html>" {
		t.Fatalf("unexpected report: %q", got)
	}
}

func TestCLISummarizePassesBothBlocks(t *testing.T) {
	// The stub echoes its -p argument back, so the output proves what the
	// collaborator received.
	stub := writeStub(t, `printf '%s' "$2"`)
	c := CLI{Executable: stub}

	got, err := c.Summarize(context.Background(), Request{
		PriorReport: "OLD-REPORT",
		Transcript:  "NEW-TRANSCRIPT",
	})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if !strings.Contains(got, "=== PREVIOUS SESSION HTML ===") ||
		!strings.Contains(got, "OLD-REPORT") {
		t.Fatalf("prior report block missing: %q", got)
	}
	if !strings.Contains(got, "=== CURRENT SESSION TRANSCRIPT ===") ||
		!strings.Contains(got, "NEW-TRANSCRIPT") {
		t.Fatalf("transcript block missing: %q", got)
	}
}

func TestCLISummarizePassesModel(t *testing.T) {
	stub := writeStub(t, `printf '%s' "$*"`)
	c := CLI{Executable: stub, Model: "sonnet"}

	got, err := c.Summarize(context.Background(), Request{Transcript: "t"})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if !strings.Contains(got, "--model sonnet") {
		t.Fatalf("model flag missing: %q", got)
	}
}

func TestCLISummarizeSurfacesStderrOnFailure(t *testing.T) {
	stub := writeStub(t, `echo "quota exceeded" >&2; exit 3`)
	c := CLI{Executable: stub}

	_, err := c.Summarize(context.Background(), Request{Transcript: "t"})
	if err == nil {
		t.Fatalf("expected error for non-zero collaborator exit")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected stderr text in error, got %v", err)
	}
}

func TestCLISummarizeTimesOut(t *testing.T) {
	stub := writeStub(t, `sleep 10`)
	c := CLI{Executable: stub, Timeout: 100 * time.Millisecond}

	start := time.Now()
	_, err := c.Summarize(context.Background(), Request{Transcript: "t"})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("timeout not enforced")
	}
}

func TestCLISummarizeTimesOutWithSurvivingGrandchild(t *testing.T) {
	// The background sleep inherits the pipes and outlives the killed
	// script; Summarize must still return near the deadline.
	stub := writeStub(t, "sleep 10 &\nwait")
	c := CLI{Executable: stub, Timeout: 100 * time.Millisecond}

	start := time.Now()
	_, err := c.Summarize(context.Background(), Request{Transcript: "t"})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("timeout not enforced while a grandchild held the pipes")
	}
}

func TestCLISummarizeMissingExecutable(t *testing.T) {
	c := CLI{Executable: filepath.Join(t.TempDir(), "absent")}
	if _, err := c.Summarize(context.Background(), Request{Transcript: "t"}); err == nil {
		t.Fatalf("expected error for missing executable")
	}
}

func TestBuildUserPromptOrdering(t *testing.T) {
	prompt := BuildUserPrompt(Request{PriorReport: "prior", Transcript: "current"})
	priorIndex := strings.Index(prompt, "prior")
	currentIndex := strings.Index(prompt, "current")
	if priorIndex < 0 || currentIndex < 0 || priorIndex > currentIndex {
		t.Fatalf("unexpected prompt layout: %q", prompt)
	}
}
