package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davidahmann/contextmap/core/config"
)

func runAnalyze(arguments []string) int {
	flagSet := flag.NewFlagSet("analyze", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var outPath string
	var model string
	var helpFlag bool

	flagSet.StringVar(&outPath, "out", "", "write the context map to this path instead of the default")
	flagSet.StringVar(&model, "model", "", "model to summarize with")
	flagSet.BoolVar(&helpFlag, "help", false, "show help")

	if err := flagSet.Parse(reorderFlagsFirst(arguments, map[string]bool{"out": true, "model": true})); err != nil {
		fmt.Fprintf(os.Stderr, "contextmap: %v\n", err)
		return exitInvalidInput
	}
	if helpFlag {
		printAnalyzeUsage()
		return exitOK
	}
	if flagSet.NArg() != 1 {
		printAnalyzeUsage()
		return exitInvalidInput
	}
	logPath := flagSet.Arg(0)

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
	if outPath != "" {
		cfg.SummaryPath = outPath
	}

	executable := resolveWrappedExecutable()
	analyze := newAnalyzer(cfg, executable, model)
	if err := analyze.Run(context.Background(), logPath); err != nil {
		fmt.Fprintf(os.Stderr, "contextmap: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func printAnalyzeUsage() {
	fmt.Println(`Usage: contextmap analyze [--out path] [--model name] <session.log>

Rebuilds the context map from one recorded session log. The prior map, if
any, is handed to the summarizer so continuity survives across sessions.`)
}
