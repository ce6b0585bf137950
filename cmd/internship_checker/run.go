package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/internship-checker/internal/db"
	"github.com/jonathan/internship-checker/internal/directory"
	"github.com/jonathan/internship-checker/internal/fetch"
	"github.com/jonathan/internship-checker/internal/ingestion"
	"github.com/jonathan/internship-checker/internal/llm"
	"github.com/jonathan/internship-checker/internal/logging"
	"github.com/jonathan/internship-checker/internal/observability"
	"github.com/jonathan/internship-checker/internal/parsing"
	"github.com/jonathan/internship-checker/internal/pipeline"
	"github.com/jonathan/internship-checker/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Infer and store requirements for every posting not yet stored",
	Long: `Lists every posting in the directory and, for each one without a stored record, downloads its
document, classifies its requirements and stores the result. Postings are processed one at a time;
re-running only touches postings that are still missing.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runRequirementPass,
}

// newLLMClient is replaced in tests.
var newLLMClient = llm.NewClient

func init() {
	runCommand.Flags().String("api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	runCommand.Flags().String("provider", "", "LLM client library: gemini or genai")
	runCommand.Flags().String("model", "", "Model used for classification")
	addStoreFlags(runCommand)

	rootCmd.AddCommand(runCommand)
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store-driver", "", "Requirement store: postgres or sqlite")
	cmd.Flags().String("db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	cmd.Flags().String("sqlite-path", "", "SQLite database file")
}

func runRequirementPass(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateForRun(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmCfg := llm.DefaultConfig().WithProvider(llm.Provider(cfg.LLMProvider))
	if cfg.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.Model)
	}
	client, err := newLLMClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	store, err := db.Open(ctx, cfg.StoreDriver, cfg.StoreDSN())
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	opts := fetchOptions(cfg)
	printer := observability.NewPrinter(cmd.OutOrStdout())

	runnerOpts := []pipeline.Option{}
	if cfg.Verbose {
		runnerOpts = append(runnerOpts, pipeline.WithRecordHook(func(rec *types.RequirementRecord) {
			printer.PrintRequirement(rec)
		}))
	}

	runner, err := pipeline.NewRunner(pipeline.Deps{
		Directory:  directory.NewClient(cfg.DirectoryBaseURL, directory.WithLogger(logger), directory.WithFetchOptions(opts)),
		Downloader: fetch.NewFetcher(cfg.DirectoryBaseURL, opts),
		Extractor:  ingestion.NewReader(),
		Classifier: parsing.NewClassifier(client, logger),
		Store:      store,
	}, logger, runnerOpts...)
	if err != nil {
		return err
	}

	summary, err := runner.Run(ctx)
	printer.PrintRunSummary(summary)
	return err
}
