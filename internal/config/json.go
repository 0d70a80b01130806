package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dlebedev/checkride/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "500ms"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	DataDir           string         `json:"data_dir"`
	DatabaseDSN       string         `json:"database_dsn"`
	S3Region          string         `json:"s3_region"`
	S3Bucket          string         `json:"s3_bucket"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	S3AccessKey       string         `json:"s3_access_key"`
	S3SecretKey       string         `json:"s3_secret_key"`
	AutosaveDebounce  timex.Duration `json:"autosave_debounce"`
	ResumeThreshold   timex.Duration `json:"resume_threshold"`
	FreshStartGrace   timex.Duration `json:"fresh_start_grace"`
	UploadConcurrency int            `json:"upload_concurrency"`
}

func overlayJsonFile(cfg *Config, path string) error {
	var jc JsonConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
	if jc.S3AccessKey != "" {
		cfg.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3SecretKey = jc.S3SecretKey
	}
	if jc.AutosaveDebounce.Duration > 0 {
		cfg.AutosaveDebounce = jc.AutosaveDebounce.Duration
	}
	if jc.ResumeThreshold.Duration > 0 {
		cfg.ResumeThreshold = jc.ResumeThreshold.Duration
	}
	if jc.FreshStartGrace.Duration > 0 {
		cfg.FreshStartGrace = jc.FreshStartGrace.Duration
	}
	if jc.UploadConcurrency > 0 {
		cfg.UploadConcurrency = jc.UploadConcurrency
	}

	return nil
}

