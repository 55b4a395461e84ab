package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/davidahmann/contextmap/core/analyzer"
	"github.com/davidahmann/contextmap/core/config"
	"github.com/davidahmann/contextmap/core/recorder"
	"github.com/davidahmann/contextmap/core/report"
	"github.com/davidahmann/contextmap/core/session"
	"github.com/davidahmann/contextmap/core/summarize"
)

// wrappedName is the program contextmap shadows. The wrapper is installed
// under this name (shell alias or earlier PATH entry), so resolution must
// find the real binary rather than itself.
const wrappedName = "claude"

const recapLimit = 600

func runWrap(arguments []string) int {
	workdir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "contextmap: %v\n", err)
		return exitFailure
	}
	cfg, err := config.Load(workdir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "contextmap: %v\n", err)
		return exitFailure
	}
	if err := os.MkdirAll(cfg.LogsDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "contextmap: create %s: %v\n", cfg.LogsDir, err)
		return exitFailure
	}

	executable := resolveWrappedExecutable()

	printBanner(cfg)

	sessionID := session.NewID()
	logPath := filepath.Join(cfg.LogsDir, session.LogFileName(time.Now(), sessionID))

	result, err := recorder.Run(recorder.Options{
		Command:     executable,
		Args:        arguments,
		LogPath:     logPath,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
	})
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("❌ Error spawning %s: %v", executable, err)))
		return exitFailure
	}

	fmt.Println()
	fmt.Println(noticeStyle.Render("💾 Session ended. Mapping your journey..."))

	if err := session.WriteManifest(session.ManifestPath(logPath), session.Manifest{
		SessionID:     sessionID,
		StartedAt:     result.StartedAt,
		Command:       executable,
		Args:          arguments,
		LogPath:       logPath,
		ExitCode:      result.ExitCode,
		BytesCaptured: result.BytesCaptured,
		DurationMS:    result.Duration.Milliseconds(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "contextmap warning: write manifest: %v\n", err)
	}

	a := newAnalyzer(cfg, executable, modelFromArgs(arguments))
	if err := a.Run(context.Background(), logPath); err != nil {
		fmt.Fprintf(os.Stderr, "contextmap: %v\n", err)
		if result.ExitCode == 0 {
			return exitFailure
		}
	}

	// The wrapper is transparent: scripts checking the wrapped program's
	// exit code must see the child's code, not ours.
	return result.ExitCode
}

func printBanner(cfg config.Config) {
	fmt.Println(bannerStyle.Render("🦉 ContextMap active."))
	prior := report.Load(cfg.SummaryPath)
	if preview := report.AnchorPreview(prior, recapLimit); preview != "" {
		fmt.Println(recapTitleStyle.Render("📜 Previously on this project..."))
		fmt.Println(recapBodyStyle.Render(preview))
	}
	fmt.Println()
}

// resolveWrappedExecutable locates the real program to spawn and to use as
// the cli collaborator.
func resolveWrappedExecutable() string {
	return config.ResolveExecutable(wrappedName, config.Lookup{
		Override:   executableOverride(),
		Candidates: config.DefaultCandidates(wrappedName),
	})
}

func newAnalyzer(cfg config.Config, executable string, model string) analyzer.Analyzer {
	return analyzer.Analyzer{
		Config:       cfg,
		Collaborator: selectCollaborator(cfg, executable, model),
	}
}

// executableOverride honors CONTEXTMAP_REAL_BIN, plus the legacy
// REAL_CLAUDE_PATH name earlier installs exported.
func executableOverride() string {
	if path := strings.TrimSpace(os.Getenv("CONTEXTMAP_REAL_BIN")); path != "" {
		return path
	}
	return strings.TrimSpace(os.Getenv("REAL_CLAUDE_PATH"))
}

// modelFromArgs reuses the model the user asked the wrapped program for,
// so the summary is produced by the same model the session ran on.
func modelFromArgs(arguments []string) string {
	for index, argument := range arguments {
		if argument == "--model" && index+1 < len(arguments) {
			return arguments[index+1]
		}
		if value, ok := strings.CutPrefix(argument, "--model="); ok {
			return value
		}
	}
	return ""
}

// collaboratorAdapter bridges summarize implementations onto the analyzer
// boundary without the analyzer importing summarize.
type collaboratorAdapter struct {
	inner summarize.Collaborator
}

func (c collaboratorAdapter) Summarize(ctx context.Context, req analyzer.Request) (string, error) {
	return c.inner.Summarize(ctx, summarize.Request{
		PriorReport: req.PriorReport,
		Transcript:  req.Transcript,
	})
}

// selectCollaborator picks the api path only when both the configuration
// asks for it and a key is present; otherwise the wrapped CLI summarizes
// its own session.
func selectCollaborator(cfg config.Config, executable string, model string) analyzer.Collaborator {
	mode := cfg.Collaborator
	if forced := strings.TrimSpace(os.Getenv("CONTEXTMAP_COLLABORATOR")); forced != "" {
		mode = forced
	}
	if model == "" {
		model = cfg.Model
	}
	if mode == config.CollaboratorAPI && os.Getenv("ANTHROPIC_API_KEY") != "" {
		return collaboratorAdapter{inner: summarize.NewAPI(model)}
	}
	return collaboratorAdapter{inner: summarize.CLI{Executable: executable, Model: model}}
}
