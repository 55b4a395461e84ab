package config

import (
	"os"
	"os/exec"
	"path/filepath"
)

// Lookup carries everything executable resolution may consult. Resolution
// is a pure function of this struct, so tests can inject stat and PATH
// lookups instead of the wrapper reading global state mid-flight.
type Lookup struct {
	// Override wins outright when set (typically CONTEXTMAP_REAL_BIN,
	// which also breaks alias recursion when the wrapper shadows the
	// program's own name).
	Override string
	// Candidates are well-known install locations probed in order.
	Candidates []string
	// Stat and LookPath default to the os/exec implementations.
	Stat     func(string) (os.FileInfo, error)
	LookPath func(string) (string, error)
}

// DefaultCandidates lists the usual install locations for the wrapped CLI.
func DefaultCandidates(name string) []string {
	home, _ := os.UserHomeDir()
	return []string{
		filepath.Join("/usr/local/bin", name),
		filepath.Join("/opt/homebrew/bin", name),
		filepath.Join(home, ".npm-global", "bin", name),
		filepath.Join(home, ".nvm", "current", "bin", name),
	}
}

// ResolveExecutable locates the real program to wrap: explicit override,
// then known install locations, then PATH, then the bare name as a last
// resort (the shell may still resolve it).
func ResolveExecutable(name string, lookup Lookup) string {
	if lookup.Override != "" {
		return lookup.Override
	}
	stat := lookup.Stat
	if stat == nil {
		stat = os.Stat
	}
	for _, candidate := range lookup.Candidates {
		if info, err := stat(candidate); err == nil && isExecutable(info) {
			return candidate
		}
	}
	lookPath := lookup.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if path, err := lookPath(name); err == nil {
		return path
	}
	return name
}

func isExecutable(info os.FileInfo) bool {
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
