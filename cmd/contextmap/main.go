package main

import (
	"fmt"
	"os"
)

// version is stamped at release time via ldflags; default stays dev for local builds.
var version = "0.0.0-dev"

const (
	exitOK           = 0
	exitFailure      = 1
	exitInvalidInput = 2
)

func main() {
	os.Exit(run(os.Args))
}

// run dispatches the few commands contextmap owns; everything else is
// forwarded verbatim to the wrapped program so existing muscle memory
// keeps working.
func run(arguments []string) int {
	if len(arguments) >= 2 {
		switch arguments[1] {
		case "analyze":
			return runAnalyze(arguments[2:])
		case "doctor":
			return runDoctor(arguments[2:])
		case "version", "--version":
			fmt.Println("contextmap", version)
			return exitOK
		case "help", "--help":
			printUsage()
			return exitOK
		}
	}
	return runWrap(arguments[1:])
}

func printUsage() {
	fmt.Println(`contextmap wraps an interactive CLI session, records it, and keeps a
running HTML context map of the project in .context/session_summary.html.

Usage:
  contextmap [args...]          run the wrapped program, then update the map
  contextmap analyze <log>      rebuild the map from a recorded session log
  contextmap doctor             check the local environment
  contextmap version            print the version

Environment:
  CONTEXTMAP_REAL_BIN           path to the real wrapped executable
  CONTEXTMAP_COLLABORATOR       force "cli" or "api" summarization
  ANTHROPIC_API_KEY             enables the api collaborator`)
}
