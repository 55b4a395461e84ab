// Package retention deletes aged session logs. Retention is best-effort
// housekeeping: it never fails the capture workflow, so failures surface as
// a zero count rather than an error.
package retention

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultMaxAge is how long session logs are kept by default.
const DefaultMaxAge = 48 * time.Hour

// Sweep deletes files in dir that match the session log naming convention
// (session_*.log) and whose modification time is older than now minus
// maxAge. It returns the number of files deleted. A missing directory is a
// no-op; per-file failures are skipped without aborting the scan.
func Sweep(dir string, maxAge time.Duration, now time.Time) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	cutoff := now.Add(-maxAge)

	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() || !matchesLogName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
			deleted++
		}
	}
	return deleted
}

func matchesLogName(name string) bool {
	return strings.HasPrefix(name, "session_") && strings.HasSuffix(name, ".log")
}
