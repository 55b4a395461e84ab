// Package transcript turns raw terminal capture bytes into a compact,
// newline-preserving transcript suitable for downstream summarization.
package transcript

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// escapeSequence matches ESC followed by a single Fe final byte, or a full
// CSI sequence: ESC '[', parameter bytes, intermediate bytes, final byte.
var escapeSequence = regexp.MustCompile(`\x1b(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)

// controlBytes matches C0 control characters and DEL, except newline and
// carriage return. Backspaces are removed, not replayed; line content is
// best-effort.
var controlBytes = regexp.MustCompile(`[\x00-\x09\x0b\x0c\x0e-\x1f\x7f]`)

// Strip removes terminal escape/control sequences from raw capture bytes
// while preserving line breaks and printable text. Invalid UTF-8 is
// replaced with the replacement rune. Strip is idempotent: a stripped
// transcript passes through unchanged.
func Strip(raw []byte) string {
	text := strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	text = escapeSequence.ReplaceAllString(text, "")
	return controlBytes.ReplaceAllString(text, "")
}
