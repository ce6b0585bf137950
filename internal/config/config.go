// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Store drivers and LLM providers accepted in configuration.
const (
	StorePostgres  = "postgres"
	StoreSQLite    = "sqlite"
	ProviderGemini = "gemini"
	ProviderGenAI  = "genai"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional in the file; env vars and flags overlay it and
// Defaults fill what is still empty.
type Config struct {
	// Directory
	DirectoryBaseURL string `json:"directory_base_url,omitempty" validate:"required,url"` // Portal base URL

	// Classification
	APIKey      string `json:"api_key,omitempty"`                                    // Gemini API key
	LLMProvider string `json:"llm_provider,omitempty" validate:"oneof=gemini genai"` // Client library
	Model       string `json:"model,omitempty"`                                      // Overrides the default model

	// Storage
	StoreDriver string `json:"store_driver,omitempty" validate:"oneof=postgres sqlite"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	SQLitePath  string `json:"sqlite_path,omitempty"`  // SQLite database file

	// Cache (serve and stats only)
	RedisURL string   `json:"redis_url,omitempty"`
	CacheTTL Duration `json:"cache_ttl,omitempty"`

	// Behavior
	RequestTimeout   Duration `json:"request_timeout,omitempty"`
	StatsConcurrency int      `json:"stats_concurrency,omitempty" validate:"min=1,max=64"`
	Port             int      `json:"port,omitempty" validate:"min=1,max=65535"`
	Verbose          bool     `json:"verbose,omitempty"` // Development logging
}

// Duration is a time.Duration that decodes from "90s"-style strings or
// from a number of seconds.
type Duration time.Duration

// Std returns the standard library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(secs * float64(time.Second))
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DirectoryBaseURL: "https://internship.cse.hcmut.edu.vn",
		LLMProvider:      ProviderGemini,
		StoreDriver:      StorePostgres,
		SQLitePath:       "internship_checker.db",
		CacheTTL:         Duration(5 * time.Minute),
		StatsConcurrency: 8,
		Port:             3000,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overlays environment variables that are set and non-empty.
func (c *Config) ApplyEnv() error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString("DIRECTORY_BASE_URL", &c.DirectoryBaseURL)
	setString("GEMINI_API_KEY", &c.APIKey)
	setString("GEMINI_MODEL", &c.Model)
	setString("LLM_PROVIDER", &c.LLMProvider)
	setString("STORE_DRIVER", &c.StoreDriver)
	setString("DATABASE_URL", &c.DatabaseURL)
	setString("SQLITE_PATH", &c.SQLitePath)
	setString("REDIS_URL", &c.RedisURL)

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: PORT must be a number, got %q", v)
		}
		c.Port = port
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DirectoryBaseURL == "" {
		result.DirectoryBaseURL = defaults.DirectoryBaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.LLMProvider == "" {
		result.LLMProvider = defaults.LLMProvider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.StoreDriver == "" {
		result.StoreDriver = defaults.StoreDriver
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.CacheTTL == 0 {
		result.CacheTTL = defaults.CacheTTL
	}
	if result.RequestTimeout == 0 {
		result.RequestTimeout = defaults.RequestTimeout
	}
	if result.StatsConcurrency == 0 {
		result.StatsConcurrency = defaults.StatsConcurrency
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks field values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("config error: 'cache_ttl' must be non-negative")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config error: 'request_timeout' must be non-negative")
	}
	return nil
}

// ValidateStore checks that the selected store driver has its connection setting.
func (c *Config) ValidateStore() error {
	switch c.StoreDriver {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required when store_driver is postgres")
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("config error: 'sqlite_path' is required when store_driver is sqlite")
		}
	}
	return nil
}

// ValidateForRun checks everything the requirement pass needs.
func (c *Config) ValidateForRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := c.ValidateStore(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("config error: 'api_key' is required (set GEMINI_API_KEY or --api-key)")
	}
	return nil
}

// StoreDSN returns the connection string for the selected store driver.
func (c *Config) StoreDSN() string {
	if c.StoreDriver == StoreSQLite {
		return c.SQLitePath
	}
	return c.DatabaseURL
}

func fieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("config error: '%s' is required", fe.Field())
	case "url":
		return fmt.Errorf("config error: '%s' must be a valid URL, got %q", fe.Field(), fe.Value())
	case "oneof":
		return fmt.Errorf("config error: '%s' must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "min", "max":
		return fmt.Errorf("config error: '%s' must be %s %s, got %v", fe.Field(), boundWord(fe.Tag()), fe.Param(), fe.Value())
	default:
		return fmt.Errorf("config error: '%s' failed '%s' validation", fe.Field(), fe.Tag())
	}
}

func boundWord(tag string) string {
	if tag == "min" {
		return "at least"
	}
	return "at most"
}
