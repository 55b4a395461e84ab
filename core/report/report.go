// Package report persists and reads back the session summary artifact. The
// report's internal format is the collaborator's concern; this package
// treats it as opaque text apart from a best-effort anchor preview.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davidahmann/contextmap/core/fsx"
)

// Load returns the prior report text, or empty when the file is missing or
// unreadable. A corrupt prior report is tolerated; it round-trips into the
// next invocation as whatever text could be decoded.
func Load(path string) string {
	// #nosec G304 -- report path comes from local configuration.
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.ToValidUTF8(string(content), "�")
}

// Persist overwrites the report atomically, creating intermediate
// directories as needed. A reader never observes a half-written file.
func Persist(path string, content string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := fsx.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
