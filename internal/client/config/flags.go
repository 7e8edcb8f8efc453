package config

import (
	"github.com/spf13/pflag"
)

const (
	flagConfig     = "config"
	flagAPIURL     = "api-url"
	flagSessionDB  = "session-db"
	flagNoPersist  = "no-persist"
	flagLogFormat  = "log-format"
	flagLogLevel   = "log-level"
	flagExportDir  = "export-dir"
	flagS3Bucket   = "s3-bucket"
	flagS3Endpoint = "s3-endpoint"
	flagS3Region   = "s3-region"
	flagWait       = "wait"
)

// BindFlags registers the configuration flags on fs. Defaults shown in help
// are the built-in defaults; Load only applies flags the user set.
func BindFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(flagConfig, "c", "", "path to JSON config file")
	fs.StringP(flagAPIURL, "a", d.APIBaseURL, "base URL of the drop analyzer API")
	fs.String(flagSessionDB, d.SessionDB, "path to the local session database")
	fs.Bool(flagNoPersist, d.NoPersist, "keep the session in memory only")
	fs.String(flagLogFormat, d.LogFormat, "log format: text or json")
	fs.String(flagLogLevel, d.LogLevel, "log level: debug, info, warn, error")
	fs.String(flagExportDir, d.ExportDir, "directory for exported reports")
	fs.String(flagS3Bucket, d.S3.Bucket, "upload exports to this S3 bucket instead of the export dir")
	fs.String(flagS3Endpoint, d.S3.Endpoint, "custom S3 endpoint (MinIO)")
	fs.String(flagS3Region, d.S3.Region, "S3 region")
	fs.Duration(flagWait, d.Wait, "wait up to this long for the API to become healthy")
}

// applyFlags copies explicitly set flags into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	strs := map[string]*string{
		flagAPIURL:     &cfg.APIBaseURL,
		flagSessionDB:  &cfg.SessionDB,
		flagLogFormat:  &cfg.LogFormat,
		flagLogLevel:   &cfg.LogLevel,
		flagExportDir:  &cfg.ExportDir,
		flagS3Bucket:   &cfg.S3.Bucket,
		flagS3Endpoint: &cfg.S3.Endpoint,
		flagS3Region:   &cfg.S3.Region,
	}
	for name, dst := range strs {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if fs.Changed(flagNoPersist) {
		v, err := fs.GetBool(flagNoPersist)
		if err != nil {
			return err
		}
		cfg.NoPersist = v
	}

	if fs.Changed(flagWait) {
		v, err := fs.GetDuration(flagWait)
		if err != nil {
			return err
		}
		cfg.Wait = v
	}
	return nil
}
