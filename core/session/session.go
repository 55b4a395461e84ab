// Package session names and describes one wrapped invocation. The raw log is
// the durable artifact; the manifest written next to it records how the
// session ran and carries a canonical-JSON digest so the pairing can be
// checked later.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gowebpki/jcs"

	"github.com/davidahmann/contextmap/core/fsx"
)

const (
	manifestSchemaID      = "contextmap.session.manifest"
	manifestSchemaVersion = "1.0.0"
)

// Manifest describes a completed recording.
type Manifest struct {
	SchemaID       string    `json:"schema_id"`
	SchemaVersion  string    `json:"schema_version"`
	SessionID      string    `json:"session_id"`
	StartedAt      time.Time `json:"started_at"`
	Command        string    `json:"command"`
	Args           []string  `json:"args,omitempty"`
	LogPath        string    `json:"log_path"`
	ExitCode       int       `json:"exit_code"`
	BytesCaptured  int64     `json:"bytes_captured"`
	DurationMS     int64     `json:"duration_ms"`
	ManifestDigest string    `json:"manifest_digest,omitempty"`
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// LogFileName builds the session log name. Timestamps have second
// granularity, so a short slice of the session ID disambiguates two
// sessions started within the same second.
func LogFileName(startedAt time.Time, sessionID string) string {
	suffix := strings.ReplaceAll(sessionID, "-", "")
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("session_%s_%s.log", startedAt.Format("20060102_150405"), suffix)
}

// ManifestPath returns the manifest location for a given log path.
func ManifestPath(logPath string) string {
	return strings.TrimSuffix(logPath, filepath.Ext(logPath)) + ".json"
}

// WriteManifest stamps the schema fields, computes the RFC 8785 canonical
// digest over the digest-free form, and writes the manifest atomically.
func WriteManifest(path string, manifest Manifest) error {
	manifest.SchemaID = manifestSchemaID
	manifest.SchemaVersion = manifestSchemaVersion
	manifest.StartedAt = manifest.StartedAt.UTC()
	manifest.ManifestDigest = ""

	digest, err := digestManifest(manifest)
	if err != nil {
		return err
	}
	manifest.ManifestDigest = digest

	encoded, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	encoded = append(encoded, '\n')
	if err := fsx.WriteFileAtomic(path, encoded, 0o600); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest loads and digest-checks a manifest.
func ReadManifest(path string) (Manifest, error) {
	// #nosec G304 -- manifest path is derived from the local log path.
	payload, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(payload, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}

	expected := manifest.ManifestDigest
	manifest.ManifestDigest = ""
	digest, err := digestManifest(manifest)
	manifest.ManifestDigest = expected
	if err != nil {
		return Manifest{}, err
	}
	if expected != "" && digest != expected {
		return Manifest{}, fmt.Errorf("manifest digest mismatch: expected %s got %s", expected, digest)
	}
	return manifest, nil
}

func digestManifest(manifest Manifest) (string, error) {
	payload, err := json.Marshal(manifest)
	if err != nil {
		return "", fmt.Errorf("encode manifest for digest: %w", err)
	}
	canonical, err := jcs.Transform(payload)
	if err != nil {
		return "", fmt.Errorf("canonicalize manifest: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
