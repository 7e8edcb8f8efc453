package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/dropanalyzer/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "empty" so a file can override a subset.
type JsonConfig struct {
	APIBaseURL *string         `json:"api_base_url"`
	SessionDB  *string         `json:"session_db"`
	NoPersist  *bool           `json:"no_persist"`
	LogFormat  *string         `json:"log_format"`
	LogLevel   *string         `json:"log_level"`
	ExportDir  *string         `json:"export_dir"`
	Wait       *timex.Duration `json:"wait"`
	S3         *struct {
		Bucket    *string `json:"bucket"`
		Region    *string `json:"region"`
		Endpoint  *string `json:"endpoint"`
		AccessKey *string `json:"access_key"`
		SecretKey *string `json:"secret_key"`
	} `json:"s3"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// parseJson overlays cfg with values from the JSON file at path.
// An empty path means no file.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.SessionDB, jc.SessionDB)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.ExportDir, jc.ExportDir)
	if jc.NoPersist != nil {
		cfg.NoPersist = *jc.NoPersist
	}
	if jc.Wait != nil {
		cfg.Wait = jc.Wait.Duration
	}
	if jc.S3 != nil {
		setString(&cfg.S3.Bucket, jc.S3.Bucket)
		setString(&cfg.S3.Region, jc.S3.Region)
		setString(&cfg.S3.Endpoint, jc.S3.Endpoint)
		setString(&cfg.S3.AccessKey, jc.S3.AccessKey)
		setString(&cfg.S3.SecretKey, jc.S3.SecretKey)
	}
	return nil
}
