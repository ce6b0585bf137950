package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/jonathan/internship-checker/internal/cache/redis"
	"github.com/jonathan/internship-checker/internal/config"
	"github.com/jonathan/internship-checker/internal/directory"
	"github.com/jonathan/internship-checker/internal/fetch"
)

// resolveConfig layers the config file, environment and explicitly set flags,
// then fills defaults. Validation is left to each command.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	var cfg config.Config
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}

	applyString(flags, "base-url", &cfg.DirectoryBaseURL)
	applyString(flags, "api-key", &cfg.APIKey)
	applyString(flags, "provider", &cfg.LLMProvider)
	applyString(flags, "model", &cfg.Model)
	applyString(flags, "store-driver", &cfg.StoreDriver)
	applyString(flags, "db-url", &cfg.DatabaseURL)
	applyString(flags, "sqlite-path", &cfg.SQLitePath)
	applyString(flags, "redis-url", &cfg.RedisURL)
	applyInt(flags, "concurrency", &cfg.StatsConcurrency)
	applyInt(flags, "port", &cfg.Port)
	if changed(flags, "timeout") {
		d, _ := flags.GetDuration("timeout")
		cfg.RequestTimeout = config.Duration(d)
	}
	if changed(flags, "cache-ttl") {
		d, _ := flags.GetDuration("cache-ttl")
		cfg.CacheTTL = config.Duration(d)
	}
	if changed(flags, "verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}

	return cfg.MergeWithDefaults(config.Defaults()), nil
}

func changed(flags *pflag.FlagSet, name string) bool {
	f := flags.Lookup(name)
	return f != nil && f.Changed
}

func applyString(flags *pflag.FlagSet, name string, dst *string) {
	if changed(flags, name) {
		*dst, _ = flags.GetString(name)
	}
}

func applyInt(flags *pflag.FlagSet, name string, dst *int) {
	if changed(flags, name) {
		*dst, _ = flags.GetInt(name)
	}
}

func fetchOptions(cfg config.Config) *fetch.Options {
	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.RequestTimeout.Std()
	return opts
}

// newCachedDirectory builds a directory client, read-through cached in Redis
// when redis_url is set. An unreachable Redis only disables the cache.
func newCachedDirectory(ctx context.Context, cfg config.Config, logger *zap.Logger) (*directory.Client, func()) {
	options := []directory.Option{
		directory.WithLogger(logger),
		directory.WithFetchOptions(fetchOptions(cfg)),
	}
	cleanup := func() {}

	if cfg.RedisURL != "" {
		c, err := redis.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, directory cache disabled", zap.Error(err))
		} else {
			options = append(options, directory.WithCache(c, cfg.CacheTTL.Std()))
			cleanup = func() { _ = c.Close() }
		}
	}

	return directory.NewClient(cfg.DirectoryBaseURL, options...), cleanup
}
