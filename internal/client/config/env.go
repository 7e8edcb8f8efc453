package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DotEnvFile is read from the working directory when present.
var DotEnvFile = ".env"

var lookupEnv = os.LookupEnv

// parseEnv overlays cfg with DROP_ANALYZER_* variables. Real environment
// variables take precedence over the same keys in envFile.
func parseEnv(cfg *Config, envFile string, lookup func(string) (string, bool)) error {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	get := func(name string) (string, bool) {
		key := EnvPrefix + name
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	for name, dst := range map[string]*string{
		"API_URL":       &cfg.APIBaseURL,
		"SESSION_DB":    &cfg.SessionDB,
		"LOG_FORMAT":    &cfg.LogFormat,
		"LOG_LEVEL":     &cfg.LogLevel,
		"EXPORT_DIR":    &cfg.ExportDir,
		"S3_BUCKET":     &cfg.S3.Bucket,
		"S3_REGION":     &cfg.S3.Region,
		"S3_ENDPOINT":   &cfg.S3.Endpoint,
		"S3_ACCESS_KEY": &cfg.S3.AccessKey,
		"S3_SECRET_KEY": &cfg.S3.SecretKey,
	} {
		if v, ok := get(name); ok {
			*dst = v
		}
	}

	if v, ok := get("NO_PERSIST"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sNO_PERSIST: %w", EnvPrefix, err)
		}
		cfg.NoPersist = b
	}

	if v, ok := get("WAIT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sWAIT: %w", EnvPrefix, err)
		}
		cfg.Wait = d
	}
	return nil
}
