// Package analyzer sequences the post-session pipeline: retention sweep,
// log read, transcript compaction, collaborator hand-off, and report
// persistence. The interactive session is already over when this runs, so
// everything here may be slow but must degrade gracefully.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davidahmann/contextmap/core/config"
	"github.com/davidahmann/contextmap/core/report"
	"github.com/davidahmann/contextmap/core/retention"
	"github.com/davidahmann/contextmap/core/transcript"
)

// Collaborator matches summarize.Collaborator without importing it, so
// tests can hand in fakes with no process or network behind them.
type Collaborator interface {
	Summarize(ctx context.Context, req Request) (string, error)
}

// Request mirrors the collaborator boundary inputs.
type Request struct {
	PriorReport string
	Transcript  string
}

// Analyzer runs the pipeline against one session log.
type Analyzer struct {
	Config       config.Config
	Collaborator Collaborator

	// Out and Warn default to stdout and stderr.
	Out  io.Writer
	Warn io.Writer
}

// Run executes the pipeline. It returns an error only for output-path
// failures; everything upstream of persistence is downgraded to warnings
// or an early "nothing to analyze" success.
func (a Analyzer) Run(ctx context.Context, logPath string) error {
	out := a.Out
	if out == nil {
		out = os.Stdout
	}
	warn := a.Warn
	if warn == nil {
		warn = os.Stderr
	}

	// Housekeeping first; it must never block the analysis.
	if deleted := retention.Sweep(filepath.Dir(logPath), a.Config.RetentionAge, time.Now()); deleted > 0 {
		fmt.Fprintf(out, "Cleaned up %d old log file(s).\n", deleted)
	}

	bounded := a.buildTranscript(logPath, warn)
	if strings.TrimSpace(bounded) == "" {
		fmt.Fprintln(out, "Empty transcript. Nothing to analyze.")
		return nil
	}

	prior := report.Load(a.Config.SummaryPath)

	generated, err := a.Collaborator.Summarize(ctx, Request{PriorReport: prior, Transcript: bounded})
	if err != nil {
		// Persist the failure so the user has a record of it; the
		// wrapper's exit code stays tied to the wrapped child.
		fmt.Fprintf(warn, "contextmap warning: summarization failed: %v\n", err)
		generated = fmt.Sprintf("contextmap: summarization failed: %v\n", err)
	}

	if err := report.Persist(a.Config.SummaryPath, generated); err != nil {
		return fmt.Errorf("persist report to %s: %w", a.Config.SummaryPath, err)
	}
	fmt.Fprintf(out, "Context map saved to: %s\n", a.Config.SummaryPath)
	return nil
}

// buildTranscript reads the raw log tolerantly and reduces it to the
// bounded transcript handed to the collaborator. Read failures yield an
// empty transcript, not an error.
func (a Analyzer) buildTranscript(logPath string, warn io.Writer) string {
	// #nosec G304 -- log path names a file this process created.
	raw, err := os.ReadFile(logPath)
	if err != nil {
		fmt.Fprintf(warn, "contextmap warning: read session log: %v\n", err)
		return ""
	}
	cleaned := transcript.Strip(raw)
	compressed := transcript.Compress(cleaned, a.Config.CompressOptions())
	return transcript.Tail(compressed, a.Config.TranscriptBudget)
}
