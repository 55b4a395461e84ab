// Package config resolves contextmap settings: built-in defaults, optional
// overrides from .context/config.json, and location of the wrapped
// executable.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kaptinlin/jsonschema"

	"github.com/davidahmann/contextmap/core/transcript"
)

const (
	// ContextDirName holds all contextmap artifacts under the working
	// directory.
	ContextDirName = ".context"
	logsDirName    = "logs"
	summaryName    = "session_summary.html"
	configName     = "config.json"

	// CollaboratorCLI pipes the prompt through the wrapped CLI itself.
	CollaboratorCLI = "cli"
	// CollaboratorAPI calls the Anthropic Messages API directly.
	CollaboratorAPI = "api"

	defaultRetentionDays    = 2
	defaultTranscriptBudget = 80_000
)

// Config is the resolved configuration for one invocation.
type Config struct {
	ContextDir   string
	LogsDir      string
	SummaryPath  string
	ConfigPath   string
	RetentionAge time.Duration

	TranscriptBudget int
	LineLimit        int
	NoiseMarkers     []string
	StepMarkers      []string

	Model        string
	Collaborator string
}

// fileConfig is the on-disk override shape. All fields are optional; absent
// fields keep their defaults.
type fileConfig struct {
	RetentionDays    *int     `json:"retention_days,omitempty"`
	TranscriptBudget *int     `json:"transcript_budget,omitempty"`
	LineLimit        *int     `json:"line_limit,omitempty"`
	NoiseMarkers     []string `json:"noise_markers,omitempty"`
	StepMarkers      []string `json:"step_markers,omitempty"`
	Model            *string  `json:"model,omitempty"`
	Collaborator     *string  `json:"collaborator,omitempty"`
	SummaryFile      *string  `json:"summary_file,omitempty"`
}

const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "retention_days": {"type": "integer", "minimum": 0},
    "transcript_budget": {"type": "integer", "minimum": 1000},
    "line_limit": {"type": "integer", "minimum": 50},
    "noise_markers": {"type": "array", "items": {"type": "string"}},
    "step_markers": {"type": "array", "items": {"type": "string", "minLength": 1}},
    "model": {"type": "string"},
    "collaborator": {"type": "string", "enum": ["cli", "api"]},
    "summary_file": {"type": "string"}
  }
}`

// Default returns the built-in configuration rooted at workdir.
func Default(workdir string) Config {
	contextDir := filepath.Join(workdir, ContextDirName)
	return Config{
		ContextDir:       contextDir,
		LogsDir:          filepath.Join(contextDir, logsDirName),
		SummaryPath:      filepath.Join(contextDir, summaryName),
		ConfigPath:       filepath.Join(contextDir, configName),
		RetentionAge:     defaultRetentionDays * 24 * time.Hour,
		TranscriptBudget: defaultTranscriptBudget,
		LineLimit:        0, // transcript package default
		NoiseMarkers:     transcript.DefaultNoiseMarkers(),
		StepMarkers:      transcript.DefaultStepMarkers(),
		Collaborator:     CollaboratorCLI,
	}
}

// Load merges .context/config.json over the defaults. A missing file is not
// an error; a file that fails schema validation or decoding is, since a
// silently ignored config would be worse than a visible one.
func Load(workdir string) (Config, error) {
	cfg := Default(workdir)

	// #nosec G304 -- config path is derived from the working directory.
	data, err := os.ReadFile(cfg.ConfigPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := validateConfig(data); err != nil {
		return Config{}, fmt.Errorf("%s: %w", cfg.ConfigPath, err)
	}

	var overrides fileConfig
	if err := json.Unmarshal(data, &overrides); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.apply(overrides)
	return cfg, nil
}

// CompressOptions maps the configuration onto transcript compression.
func (c Config) CompressOptions() transcript.Options {
	return transcript.Options{
		LineLimit:    c.LineLimit,
		NoiseMarkers: c.NoiseMarkers,
		StepMarkers:  c.StepMarkers,
	}
}

func (c *Config) apply(overrides fileConfig) {
	if overrides.RetentionDays != nil {
		c.RetentionAge = time.Duration(*overrides.RetentionDays) * 24 * time.Hour
	}
	if overrides.TranscriptBudget != nil {
		c.TranscriptBudget = *overrides.TranscriptBudget
	}
	if overrides.LineLimit != nil {
		c.LineLimit = *overrides.LineLimit
	}
	if overrides.NoiseMarkers != nil {
		c.NoiseMarkers = overrides.NoiseMarkers
	}
	if overrides.StepMarkers != nil {
		c.StepMarkers = overrides.StepMarkers
	}
	if overrides.Model != nil {
		c.Model = *overrides.Model
	}
	if overrides.Collaborator != nil {
		c.Collaborator = *overrides.Collaborator
	}
	if overrides.SummaryFile != nil {
		c.SummaryPath = filepath.Join(c.ContextDir, *overrides.SummaryFile)
	}
}

func validateConfig(data []byte) error {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(configSchema))
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("config validation failed: %v", result.Errors)
}
