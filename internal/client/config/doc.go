// Package config loads runtime configuration for the dropctl CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config / -c.
//  3. Environment: DROP_ANALYZER_* variables, falling back to a .env file
//     in the working directory.
//  4. Command-line flags the user set explicitly.
//
// # JSON schema
//
// Every key is optional. Durations accept "30s" style strings or integer
// nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000/api/v1",
//	  "session_db": "session.db",
//	  "log_format": "json",
//	  "wait": "30s",
//	  "s3": {"bucket": "drops", "endpoint": "http://localhost:9000"}
//	}
//
// # Environment
//
//	DROP_ANALYZER_API_URL       base URL of the API
//	DROP_ANALYZER_SESSION_DB    path of the session database
//	DROP_ANALYZER_NO_PERSIST    true to keep the session in memory
//	DROP_ANALYZER_LOG_FORMAT    text or json
//	DROP_ANALYZER_LOG_LEVEL     debug, info, warn, error
//	DROP_ANALYZER_EXPORT_DIR    where exports are written
//	DROP_ANALYZER_S3_*          BUCKET, REGION, ENDPOINT, ACCESS_KEY, SECRET_KEY
//	DROP_ANALYZER_WAIT          e.g. 30s
package config
