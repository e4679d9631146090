package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/minhtran99/jobflow/internal/scheduler"
	"github.com/minhtran99/jobflow/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the collection loop on an interval",
	Long:  "Runs a full cycle immediately, then repeats on schedule_interval; blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	logger.Info("config loaded",
		"query", q,
		"interval", cfg.ScheduleInterval.String(),
		"sources", len(cfg.Sources),
		"store", cfg.Store.Path,
	)

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	n := setupNotifier(cfg, httpClient, logger)
	collectors := buildCollectors(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A fresh pipeline per cycle so a relevance-model outage in one cycle
	// does not pin later cycles to the keyword path.
	sched := scheduler.New(func(ctx context.Context) error {
		return runCycle(ctx, cfg, collectors, buildPipeline(cfg, logger), sqlStore, n, logger, q)
	}, cfg.ScheduleInterval, logger)

	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
