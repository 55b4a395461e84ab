package transcript

import (
	"fmt"
	"strings"
)

// StepSeparator is emitted before every detected user-step line so downstream
// consumers can segment the transcript by user intent.
const StepSeparator = "--- USER STEP ---"

const (
	defaultLineLimit = 300
	defaultHead      = 100
	defaultTail      = 100
)

// Options control transcript compression. Zero values fall back to defaults.
type Options struct {
	// LineLimit is the maximum line length in runes before truncation.
	LineLimit int
	// Head and Tail are the rune counts kept on either side of a truncation.
	Head int
	Tail int
	// NoiseMarkers drop a line entirely when it contains any of them.
	NoiseMarkers []string
	// StepMarkers start a new user step when a trimmed line begins with one.
	StepMarkers []string
}

// DefaultNoiseMarkers are substrings of known low-information progress lines.
func DefaultNoiseMarkers() []string {
	return []string{"Resolving...", "Fetching...", "Downloading..."}
}

// DefaultStepMarkers are prompt prefixes that begin a user step.
func DefaultStepMarkers() []string {
	return []string{"> ", "❯ "}
}

// Compress segments cleaned text into user-step blocks, drops noise lines,
// and truncates oversized lines. Order is preserved apart from inserted
// separators. Compress is total: empty input yields empty output.
func Compress(cleaned string, opts Options) string {
	if cleaned == "" {
		return ""
	}
	opts = opts.withDefaults()

	lines := strings.Split(cleaned, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if hasAnyPrefix(trimmed, opts.StepMarkers) {
			kept = append(kept, "\n"+StepSeparator+"\n"+trimmed)
			continue
		}
		if containsAny(line, opts.NoiseMarkers) {
			continue
		}
		kept = append(kept, capLine(line, opts))
	}
	return strings.Join(kept, "\n")
}

// Tail bounds a transcript to its most recent max runes.
func Tail(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[len(runes)-max:])
}

func (o Options) withDefaults() Options {
	if o.LineLimit <= 0 {
		o.LineLimit = defaultLineLimit
	}
	if o.Head <= 0 {
		o.Head = defaultHead
	}
	if o.Tail <= 0 {
		o.Tail = defaultTail
	}
	if o.NoiseMarkers == nil {
		o.NoiseMarkers = DefaultNoiseMarkers()
	}
	if o.StepMarkers == nil {
		o.StepMarkers = DefaultStepMarkers()
	}
	return o
}

func capLine(line string, opts Options) string {
	runes := []rune(line)
	if len(runes) <= opts.LineLimit {
		return line
	}
	elided := len(runes) - opts.Head - opts.Tail
	return fmt.Sprintf("%s ... [%d chars truncated] ... %s",
		string(runes[:opts.Head]), elided, string(runes[len(runes)-opts.Tail:]))
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if marker != "" && strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
