// Package config holds runtime settings for the checkride core and CLI,
// layered as defaults -> JSON file -> command-line flags, where later
// sources take precedence over earlier ones.
package config

import (
	"path/filepath"
	"time"

	"github.com/dlebedev/checkride/internal/flagx"
)

// Config holds runtime settings for the draft lifecycle and submission
// pipeline.
//
// Units: all intervals are time.Duration values (e.g. 500*time.Millisecond).
type Config struct {
	// DataDir is the root for local state: draft database, asset cache,
	// session lock.
	DataDir string

	// DatabaseDSN is the Postgres DSN of the backend document store.
	DatabaseDSN string

	// Object storage settings for uploaded inspection assets.
	S3Region       string
	S3Bucket       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	// AutosaveDebounce is the quiet period after the last record mutation
	// before the draft is written.
	AutosaveDebounce time.Duration

	// ResumeThreshold separates silent auto-resume from the recovery prompt.
	ResumeThreshold time.Duration

	// FreshStartGrace suppresses autosave right after a "start fresh" so the
	// reset itself is not persisted as user work.
	FreshStartGrace time.Duration

	// UploadConcurrency caps in-flight asset uploads per submission.
	UploadConcurrency int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = ".checkride"
	c.DatabaseDSN = ""
	c.S3Region = "us-east-1"
	c.S3Bucket = "inspection-assets"
	c.AutosaveDebounce = 500 * time.Millisecond
	c.ResumeThreshold = 30 * time.Second
	c.FreshStartGrace = 2 * time.Second
	c.UploadConcurrency = 8
}

// DraftDBPath returns the location of the local draft database.
func (c *Config) DraftDBPath() string {
	return filepath.Join(c.DataDir, "drafts.db")
}

// AssetCacheDir returns the root of the local asset cache.
func (c *Config) AssetCacheDir() string {
	return filepath.Join(c.DataDir, "assets")
}

// SessionLockPath returns the lock file guarding a single active session.
func (c *Config) SessionLockPath() string {
	return filepath.Join(c.DataDir, "session.lock")
}

// Load constructs a Config by layering defaults, then the JSON file (path,
// or one named by -c/-config inside args when path is empty), then the flag
// overrides parseFlags documents. args is typically os.Args[1:]; flags owned
// by other components are filtered out before parsing, so Load is safe to
// call from a binary that defines its own flag surface.
func Load(path string, args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path == "" {
		path = flagx.JsonConfigFlags(args)
	}
	if path != "" {
		if err := overlayJsonFile(cfg, path); err != nil {
			return nil, err
		}
	}

	parseFlags(cfg, args)
	return cfg, nil
}
