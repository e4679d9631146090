package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/minhtran99/jobflow/internal/store"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect once, enrich, load, exit",
	Long:  "One-shot run: collects from every enabled source, runs the enrichment pipeline and loads the results into the store.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "run the full pipeline but persist nothing")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	q, err := resolveQuery(cfg)
	if err != nil {
		logger.Error("cannot start", "error", err)
		os.Exit(1)
	}

	var loader jobLoader
	if dryRun {
		logger.Info("dry-run mode enabled, nothing will be persisted")
		loader = store.NewNopStore()
	} else {
		sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		loader = sqlStore
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	n := setupNotifier(cfg, httpClient, logger)
	collectors := buildCollectors(cfg, logger)
	pipeline := buildPipeline(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runCycle(ctx, cfg, collectors, pipeline, loader, n, logger, q); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
	return nil
}
