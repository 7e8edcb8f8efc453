package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

// isolate keeps Load away from the developer's real environment.
func isolate(t *testing.T) {
	t.Helper()
	origLookup, origFile := lookupEnv, DotEnvFile
	t.Cleanup(func() { lookupEnv, DotEnvFile = origLookup, origFile })
	lookupEnv = noEnv
	DotEnvFile = filepath.Join(t.TempDir(), ".env")
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://localhost:5000/api/v1", c.APIBaseURL)
	assert.Equal(t, "session.db", c.SessionDB)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, "exports", c.ExportDir)
	assert.Equal(t, "us-east-1", c.S3.Region)
	assert.Zero(t, c.Wait)
}

func TestLoad_DefaultsOnly(t *testing.T) {
	isolate(t)

	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoad_NilFlagSet(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestParseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_base_url": "https://drops.example/api/v1",
		"log_format":   "json",
		"wait":         "15s",
		"s3":           map[string]any{"bucket": "drops", "endpoint": "http://minio:9000"},
	})

	cfg := defaults()
	require.NoError(t, parseJson(cfg, path))

	want := defaults()
	want.APIBaseURL = "https://drops.example/api/v1"
	want.LogFormat = "json"
	want.Wait = 15 * time.Second
	want.S3.Bucket = "drops"
	want.S3.Endpoint = "http://minio:9000"
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseJson_Errors(t *testing.T) {
	require.NoError(t, parseJson(defaults(), ""))

	err := parseJson(defaults(), filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	require.Error(t, parseJson(defaults(), bad))

	badWait := writeTempJSON(t, map[string]any{"wait": "soon"})
	require.Error(t, parseJson(defaults(), badWait))
}

func TestParseEnv_ProcessEnvBeatsDotEnv(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte(
		"DROP_ANALYZER_API_URL=http://from-file:5000/api/v1\n"+
			"DROP_ANALYZER_SESSION_DB=file.db\n"+
			"DROP_ANALYZER_WAIT=5s\n"), 0o600))

	cfg := defaults()
	err := parseEnv(cfg, dotenv, envMap(map[string]string{
		"DROP_ANALYZER_API_URL":    "http://from-env:5000/api/v1",
		"DROP_ANALYZER_NO_PERSIST": "true",
		"DROP_ANALYZER_S3_BUCKET":  "drops",
	}))
	require.NoError(t, err)

	want := defaults()
	want.APIBaseURL = "http://from-env:5000/api/v1"
	want.SessionDB = "file.db"
	want.NoPersist = true
	want.Wait = 5 * time.Second
	want.S3.Bucket = "drops"
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseEnv_MissingDotEnvIsFine(t *testing.T) {
	cfg := defaults()
	require.NoError(t, parseEnv(cfg, filepath.Join(t.TempDir(), "none.env"), noEnv))
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestParseEnv_BadValues(t *testing.T) {
	err := parseEnv(defaults(), "", envMap(map[string]string{"DROP_ANALYZER_WAIT": "abc"}))
	require.ErrorContains(t, err, "DROP_ANALYZER_WAIT")

	err = parseEnv(defaults(), "", envMap(map[string]string{"DROP_ANALYZER_NO_PERSIST": "maybe"}))
	require.ErrorContains(t, err, "DROP_ANALYZER_NO_PERSIST")
}

func TestApplyFlags_OnlyChanged(t *testing.T) {
	cfg := defaults()
	cfg.APIBaseURL = "http://from-json/api/v1"

	fs := newFlagSet(t, "--session-db", "/tmp/s.db", "--wait", "10s", "--no-persist")
	require.NoError(t, applyFlags(cfg, fs))

	want := defaults()
	want.APIBaseURL = "http://from-json/api/v1"
	want.SessionDB = "/tmp/s.db"
	want.Wait = 10 * time.Second
	want.NoPersist = true
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)
	lookupEnv = envMap(map[string]string{
		"DROP_ANALYZER_API_URL":   "http://env/api/v1",
		"DROP_ANALYZER_LOG_LEVEL": "debug",
	})

	path := writeTempJSON(t, map[string]any{
		"api_base_url": "http://json/api/v1",
		"log_level":    "error",
		"export_dir":   "json-exports",
	})

	cfg, err := Load(newFlagSet(t, "-c", path, "-a", "http://flag/api/v1"))
	require.NoError(t, err)

	assert.Equal(t, "http://flag/api/v1", cfg.APIBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json-exports", cfg.ExportDir)
}

func TestLoad_InvalidJSONPath(t *testing.T) {
	isolate(t)

	_, err := Load(newFlagSet(t, "--config", filepath.Join(t.TempDir(), "nope.json")))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"empty url", func(c *Config) { c.APIBaseURL = "" }, false},
		{"empty db", func(c *Config) { c.SessionDB = "" }, false},
		{"empty db in memory", func(c *Config) { c.SessionDB = ""; c.NoPersist = true }, true},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, false},
		{"negative wait", func(c *Config) { c.Wait = -time.Second }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			if tt.ok {
				require.NoError(t, c.Validate())
			} else {
				require.Error(t, c.Validate())
			}
		})
	}
}
