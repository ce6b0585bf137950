package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/internship-checker/internal/db"
	"github.com/jonathan/internship-checker/internal/logging"
	"github.com/jonathan/internship-checker/internal/server"
	"github.com/jonathan/internship-checker/internal/server/ratelimit"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts an HTTP server exposing directory availability and stored requirement records.

Endpoints:
  GET /health                   - Health check
  GET /api/companies            - Availability report, computed on request
  GET /api/requirements         - All stored requirement records
  GET /api/requirements/{id}    - One stored requirement record

Requirement endpoints answer 503 when no store is reachable.`,
	RunE: runServe,
}

func init() {
	serveCommand.Flags().IntP("port", "p", 0, "Port to listen on (defaults to PORT env var or 3000)")
	serveCommand.Flags().Int("concurrency", 0, "Maximum concurrent detail requests per report")
	serveCommand.Flags().String("redis-url", "", "Redis URL for caching directory responses (defaults to REDIS_URL env var)")
	serveCommand.Flags().Duration("cache-ttl", 0, "How long cached directory responses stay valid")
	addStoreFlags(serveCommand)

	rootCmd.AddCommand(serveCommand)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, cleanup := newCachedDirectory(ctx, cfg, logger)
	defer cleanup()

	serverCfg := server.Config{
		Port:        cfg.Port,
		Reports:     server.StatsReporter{Source: client, Concurrency: cfg.StatsConcurrency},
		RateLimiter: ratelimit.NewLimiter(nil),
		Logger:      logger,
	}

	if err := cfg.ValidateStore(); err != nil {
		logger.Warn("requirement store not configured", zap.Error(err))
	} else if store, err := db.Open(ctx, cfg.StoreDriver, cfg.StoreDSN()); err != nil {
		logger.Warn("requirement store unavailable", zap.Error(err))
	} else {
		defer func() { _ = store.Close() }()
		serverCfg.Requirements = store
	}

	srv, err := server.New(serverCfg)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}
