package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

const (
	DefaultAPIBaseURL = "http://localhost:5000/api/v1"
	DefaultSessionDB  = "session.db"
	DefaultExportDir  = "exports"

	EnvPrefix = "DROP_ANALYZER_"
)

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Config holds runtime settings for the dropctl CLI.
type Config struct {
	APIBaseURL string
	SessionDB  string
	// NoPersist keeps the session in memory for the lifetime of the process.
	NoPersist bool
	LogFormat string
	LogLevel  string
	ExportDir string
	S3        S3Config
	// Wait, when positive, makes the CLI poll /health for up to this long
	// before running a command.
	Wait time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.SessionDB = DefaultSessionDB
	c.NoPersist = false
	c.LogFormat = "text"
	c.LogLevel = "warn"
	c.ExportDir = DefaultExportDir
	c.S3 = S3Config{Region: "us-east-1"}
	c.Wait = 0
}

// Load builds a Config from defaults, then the JSON file named by --config,
// then the environment (.env file and DROP_ANALYZER_* variables), then flags
// the user actually set. Later sources win.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path := ""
	if fs != nil {
		path, _ = fs.GetString(flagConfig)
	}
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}

	if err := parseEnv(cfg, DotEnvFile, lookupEnv); err != nil {
		return nil, err
	}

	if fs != nil {
		if err := applyFlags(cfg, fs); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url must not be empty")
	}
	if !c.NoPersist && c.SessionDB == "" {
		return fmt.Errorf("session db path must not be empty")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.Wait < 0 {
		return fmt.Errorf("wait must not be negative")
	}
	return nil
}
