package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.DatabaseURL = "postgres://localhost:5432/internships"
	cfg.APIKey = "test-key"
	return cfg
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"directory_base_url": "https://portal.example.edu",
		"store_driver": "sqlite",
		"sqlite_path": "/tmp/req.db",
		"cache_ttl": "10m",
		"request_timeout": 30,
		"stats_concurrency": 4,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://portal.example.edu", cfg.DirectoryBaseURL)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/req.db", cfg.StoreDSN())
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL.Std())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout.Std())
	assert.Equal(t, 4, cfg.StatsConcurrency)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{ invalid json }`), 0644))
	badDuration := filepath.Join(dir, "duration.json")
	require.NoError(t, os.WriteFile(badDuration, []byte(`{"cache_ttl": "soon"}`), 0644))

	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{name: "empty path", path: "", wantMsg: "config path is empty"},
		{name: "missing file", path: "/nonexistent/path/config.json", wantMsg: "failed to read config file"},
		{name: "invalid json", path: invalid, wantMsg: "failed to parse config JSON"},
		{name: "bad duration", path: badDuration, wantMsg: "invalid duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("PORT", "8081")
	t.Setenv("REDIS_URL", "")

	cfg := Config{APIKey: "file-key", RedisURL: "redis://file:6379"}
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "redis://file:6379", cfg.RedisURL, "empty env value keeps file value")
}

func TestApplyEnv_BadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	cfg := Config{}
	err := cfg.ApplyEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT must be a number")
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 9000, Model: "gemini-2.5-pro"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "gemini-2.5-pro", merged.Model)
	assert.Equal(t, ProviderGemini, merged.LLMProvider)
	assert.Equal(t, StorePostgres, merged.StoreDriver)
	assert.Zero(t, merged.RequestTimeout, "no request deadline unless configured")
	assert.Equal(t, 8, merged.StatsConcurrency)
	assert.Equal(t, 0, cfg.StatsConcurrency, "receiver is not modified")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "missing base url",
			mutate:  func(c *Config) { c.DirectoryBaseURL = "" },
			wantMsg: "'directory_base_url' is required",
		},
		{
			name:    "bad base url",
			mutate:  func(c *Config) { c.DirectoryBaseURL = "not a url" },
			wantMsg: "'directory_base_url' must be a valid URL",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.StoreDriver = "mongo" },
			wantMsg: "'store_driver' must be one of [postgres sqlite]",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.LLMProvider = "openai" },
			wantMsg: "'llm_provider' must be one of",
		},
		{
			name:    "port too large",
			mutate:  func(c *Config) { c.Port = 70000 },
			wantMsg: "'port' must be at most 65535",
		},
		{
			name:    "concurrency zero",
			mutate:  func(c *Config) { c.StatsConcurrency = 0 },
			wantMsg: "'stats_concurrency' must be at least 1",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.RequestTimeout = Duration(-time.Second) },
			wantMsg: "'request_timeout' must be non-negative",
		},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) { c.DatabaseURL = "" },
			wantMsg: "'database_url' is required",
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.StoreDriver = StoreSQLite; c.SQLitePath = "" },
			wantMsg: "'sqlite_path' is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				err = cfg.ValidateStore()
			}
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateForRun(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.ValidateForRun())

	cfg.APIKey = ""
	err := cfg.ValidateForRun()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'api_key' is required")
	assert.NoError(t, cfg.Validate(), "stats does not need a key")

	cfg = validConfig()
	cfg.DatabaseURL = ""
	assert.NoError(t, cfg.Validate(), "stats does not need a store")
	assert.Error(t, cfg.ValidateForRun())
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
