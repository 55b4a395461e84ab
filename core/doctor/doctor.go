// Package doctor inspects the local environment and reports whether a
// wrapped session would be able to record, summarize, and persist its
// context map.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davidahmann/contextmap/core/config"
)

const (
	statusPass = "pass"
	statusWarn = "warn"
	statusFail = "fail"

	schemaID      = "contextmap.doctor.result"
	schemaVersion = "1.0.0"
)

type Options struct {
	Config          config.Config
	Executable      string
	APIKeyPresent   bool
	ProducerVersion string
	Now             time.Time
}

type Result struct {
	SchemaID        string   `json:"schema_id"`
	SchemaVersion   string   `json:"schema_version"`
	CreatedAt       string   `json:"created_at"`
	ProducerVersion string   `json:"producer_version"`
	Status          string   `json:"status"`
	Summary         string   `json:"summary"`
	FixCommands     []string `json:"fix_commands,omitempty"`
	Checks          []Check  `json:"checks"`
}

type Check struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	FixCommand string `json:"fix_command,omitempty"`
}

// Run executes every check. It never returns an error; problems surface
// as warn or fail checks with a fix command where one exists.
func Run(opts Options) Result {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	producerVersion := strings.TrimSpace(opts.ProducerVersion)
	if producerVersion == "" {
		producerVersion = "0.0.0-dev"
	}

	checks := []Check{
		checkExecutable(opts.Executable),
		checkContextDir(opts.Config.ContextDir),
		checkConfigFile(opts.Config.ConfigPath),
		checkCollaborator(opts.Config, opts.APIKeyPresent),
		checkLogBacklog(opts.Config.LogsDir, opts.Config.RetentionAge, now),
	}

	status := statusPass
	var fixes []string
	for _, check := range checks {
		if check.FixCommand != "" {
			fixes = append(fixes, check.FixCommand)
		}
		switch check.Status {
		case statusFail:
			status = statusFail
		case statusWarn:
			if status == statusPass {
				status = statusWarn
			}
		}
	}

	return Result{
		SchemaID:        schemaID,
		SchemaVersion:   schemaVersion,
		CreatedAt:       now.UTC().Format(time.RFC3339Nano),
		ProducerVersion: producerVersion,
		Status:          status,
		Summary:         fmt.Sprintf("doctor: %d checks, status %s", len(checks), status),
		FixCommands:     fixes,
		Checks:          checks,
	}
}

func checkExecutable(path string) Check {
	check := Check{Name: "wrapped_executable"}
	info, err := os.Stat(path)
	if err != nil {
		check.Status = statusFail
		check.Message = fmt.Sprintf("%s not found", path)
		check.FixCommand = "export CONTEXTMAP_REAL_BIN=/path/to/real/binary"
		return check
	}
	if !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
		check.Status = statusFail
		check.Message = fmt.Sprintf("%s is not an executable file", path)
		check.FixCommand = fmt.Sprintf("chmod +x %s", path)
		return check
	}
	check.Status = statusPass
	check.Message = fmt.Sprintf("resolved to %s", path)
	return check
}

func checkContextDir(contextDir string) Check {
	check := Check{Name: "context_dir"}
	if err := os.MkdirAll(contextDir, 0o750); err != nil {
		check.Status = statusFail
		check.Message = fmt.Sprintf("cannot create %s: %v", contextDir, err)
		return check
	}
	probe, err := os.CreateTemp(contextDir, ".doctor.*")
	if err != nil {
		check.Status = statusFail
		check.Message = fmt.Sprintf("%s is not writable: %v", contextDir, err)
		return check
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	check.Status = statusPass
	check.Message = fmt.Sprintf("%s is writable", contextDir)
	return check
}

func checkConfigFile(configPath string) Check {
	check := Check{Name: "config_file"}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		check.Status = statusPass
		check.Message = "no config file, defaults in use"
		return check
	}
	// Loading already happened before doctor ran; reaching this point
	// means the file validated.
	check.Status = statusPass
	check.Message = fmt.Sprintf("%s loaded", configPath)
	return check
}

func checkCollaborator(cfg config.Config, apiKeyPresent bool) Check {
	check := Check{Name: "collaborator"}
	if cfg.Collaborator == config.CollaboratorAPI && !apiKeyPresent {
		check.Status = statusWarn
		check.Message = "api collaborator configured but ANTHROPIC_API_KEY is unset; sessions will fall back to the cli"
		check.FixCommand = "export ANTHROPIC_API_KEY=..."
		return check
	}
	check.Status = statusPass
	check.Message = fmt.Sprintf("%s collaborator ready", cfg.Collaborator)
	return check
}

func checkLogBacklog(logsDir string, maxAge time.Duration, now time.Time) Check {
	check := Check{Name: "log_retention"}
	entries, err := os.ReadDir(logsDir)
	if err != nil {
		check.Status = statusPass
		check.Message = "no session logs yet"
		return check
	}
	total := 0
	aged := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "session_") || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		total++
		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		if now.Sub(info.ModTime()) > maxAge {
			aged++
		}
	}
	if aged > 0 {
		check.Status = statusWarn
		check.Message = fmt.Sprintf("%d of %d logs past retention; next session will remove them", aged, total)
		return check
	}
	check.Status = statusPass
	check.Message = fmt.Sprintf("%d session log(s) within retention", total)
	return check
}
