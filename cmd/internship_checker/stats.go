package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/internship-checker/internal/logging"
	"github.com/jonathan/internship-checker/internal/observability"
	"github.com/jonathan/internship-checker/internal/stats"
)

var statsCommand = &cobra.Command{
	Use:   "stats",
	Short: "Report slot availability and acceptance ratios across the directory",
	Long: `Fetches every posting's detail concurrently and reports which companies still have open slots,
along with directory-wide registration and acceptance ratios. Nothing is stored.`,
	RunE: runStats,
}

func init() {
	statsCommand.Flags().Bool("json", false, "Print the report as JSON")
	statsCommand.Flags().Int("concurrency", 0, "Maximum concurrent detail requests")
	statsCommand.Flags().String("redis-url", "", "Redis URL for caching directory responses (defaults to REDIS_URL env var)")
	statsCommand.Flags().Duration("cache-ttl", 0, "How long cached directory responses stay valid")

	rootCmd.AddCommand(statsCommand)
}

func runStats(cmd *cobra.Command, _ []string) error {
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

	ctx := cmd.Context()
	client, cleanup := newCachedDirectory(ctx, cfg, logger)
	defer cleanup()

	report, err := stats.Collect(ctx, client, cfg.StatsConcurrency)
	if err != nil {
		return fmt.Errorf("failed to collect stats: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintAcceptance(report)
	return nil
}
