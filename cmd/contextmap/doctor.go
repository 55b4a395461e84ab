package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davidahmann/contextmap/core/config"
	"github.com/davidahmann/contextmap/core/doctor"
)

func runDoctor(arguments []string) int {
	flagSet := flag.NewFlagSet("doctor", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var jsonOutput bool
	var helpFlag bool
	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")
	flagSet.BoolVar(&helpFlag, "help", false, "show help")

	if err := flagSet.Parse(arguments); err != nil {
		fmt.Fprintf(os.Stderr, "contextmap: %v\n", err)
		return exitInvalidInput
	}
	if helpFlag {
		fmt.Println("Usage: contextmap doctor [--json]")
		return exitOK
	}
	if flagSet.NArg() > 0 {
		fmt.Println("Usage: contextmap doctor [--json]")
		return exitInvalidInput
	}

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

	result := doctor.Run(doctor.Options{
		Config:          cfg,
		Executable:      resolveWrappedExecutable(),
		APIKeyPresent:   os.Getenv("ANTHROPIC_API_KEY") != "",
		ProducerVersion: version,
	})

	if jsonOutput {
		encoded, encodeErr := json.MarshalIndent(result, "", "  ")
		if encodeErr != nil {
			fmt.Fprintf(os.Stderr, "contextmap: %v\n", encodeErr)
			return exitFailure
		}
		fmt.Println(string(encoded))
	} else {
		fmt.Println(result.Summary)
		for _, check := range result.Checks {
			fmt.Printf("- %s: %s (%s)\n", check.Name, check.Status, check.Message)
			if check.FixCommand != "" {
				fmt.Printf("  fix: %s\n", check.FixCommand)
			}
		}
	}

	if result.Status == "fail" {
		return exitFailure
	}
	return exitOK
}
