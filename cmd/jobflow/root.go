package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/minhtran99/jobflow/internal/config"
	"github.com/minhtran99/jobflow/internal/enrich"
	"github.com/minhtran99/jobflow/internal/model"
	"github.com/minhtran99/jobflow/internal/notifier"
	"github.com/minhtran99/jobflow/internal/orchestrator"
	"github.com/minhtran99/jobflow/internal/ratelimit"
	"github.com/minhtran99/jobflow/internal/relevance"
	"github.com/minhtran99/jobflow/internal/retry"
	"github.com/minhtran99/jobflow/internal/source"
	"github.com/minhtran99/jobflow/internal/store"
)

var (
	cfgPath string
	debug   bool
	query   string
)

var rootCmd = &cobra.Command{
	Use:   "jobflow",
	Short: "Collect and enrich job listings from Vietnamese boards",
	Long:  "Jobflow scrapes TopCV, CareerViet and Vieclam24h for a search query, normalizes and enriches the listings, and loads them into SQLite.",
	// Default to `run` so that `jobflow -q "data analyst"` works without a subcommand.
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBFLOW_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&query, "query", "q", "", "search query (overrides config)")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBFLOW_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBFLOW_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) notifier.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// resolveQuery picks the search query: the -q flag wins over the config.
func resolveQuery(cfg *config.Config) (string, error) {
	if query != "" {
		return query, nil
	}
	if cfg.Query != "" {
		return cfg.Query, nil
	}
	return "", fmt.Errorf("no search query: pass -q or set query in the config")
}

func createFetcher(src config.SourceConfig, client *source.Client, logger *slog.Logger) (model.PageFetcher, bool) {
	switch src.Name {
	case "topcv":
		return source.NewTopCVFetcher(client, src.BaseURL, logger), true
	case "careerviet":
		return source.NewCareerVietFetcher(client, src.BaseURL, logger), true
	case "vieclam24h":
		return source.NewVieclam24hFetcher(client, src.BaseURL, logger), true
	default:
		logger.Warn("unsupported source, skipping", "source", src.Name)
		return nil, false
	}
}

// buildCollectors wires one collector per enabled source: board fetcher,
// wrapped in the per-source rate limiter, wrapped in the retry layer.
func buildCollectors(cfg *config.Config, logger *slog.Logger) []orchestrator.SourceCollector {
	client := source.NewClient(cfg.Scrape.RequestTimeout, 2, 1)
	limiter := ratelimit.NewSourceRateLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.SourceOverrides)

	var collectors []orchestrator.SourceCollector
	for _, src := range cfg.Sources {
		if !src.Enabled {
			continue
		}

		fetcher, ok := createFetcher(src, client, logger)
		if !ok {
			continue
		}

		var limited model.PageFetcher = ratelimit.NewLimitedFetcher(fetcher, limiter, src.Name)
		limited = retry.NewFetcher(limited, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, cfg.Retry.MaxDelay, logger)

		maxPages := src.MaxPages
		if maxPages == 0 {
			maxPages = 5
		}
		maxResults := src.MaxResults
		if maxResults == 0 {
			maxResults = 100
		}

		collectors = append(collectors, source.NewCollector(src.Name, limited, maxPages, maxResults, logger))
		logger.Info("registered source", "name", src.Name, "max_pages", maxPages, "max_results", maxResults)
	}
	return collectors
}

func buildPipeline(cfg *config.Config, logger *slog.Logger) *enrich.Pipeline {
	var primary relevance.Scorer
	if cfg.Relevance.Enabled {
		primary = relevance.NewEmbeddingScorer(cfg.Relevance.BaseURL, cfg.Relevance.APIKey,
			cfg.Relevance.Model, cfg.Relevance.Timeout)
		logger.Info("relevance scoring via embeddings", "model", cfg.Relevance.Model)
	}
	filter := relevance.NewFilter(primary, cfg.Relevance.Threshold, cfg.Relevance.KeywordThreshold, logger)
	return enrich.NewPipeline(enrich.NewSkillExtractor(cfg.Skills), filter, logger)
}

// jobLoader is the store capability one cycle needs.
type jobLoader interface {
	LoadJobs(jobs []model.EnrichedJob) (store.LoadStats, error)
}

// runCycle is one full pass: collect, enrich, load, notify.
func runCycle(ctx context.Context, cfg *config.Config, collectors []orchestrator.SourceCollector,
	pipeline *enrich.Pipeline, loader jobLoader, n notifier.Notifier, logger *slog.Logger, q string) error {

	merged, report, err := orchestrator.New(collectors, cfg.Scrape.PerSourceTimeout, logger).Run(ctx, q)
	if err != nil {
		return err
	}

	enriched, warnings := pipeline.Run(ctx, q, merged)

	stats, err := loader.LoadJobs(enriched)
	if err != nil {
		return fmt.Errorf("loading jobs: %w", err)
	}

	if err := n.Notify(notifier.Summary{
		Report:   report,
		Inserted: stats.Inserted,
		Skipped:  stats.Skipped,
		Warnings: warnings,
	}); err != nil {
		logger.Error("notification failed", "error", err)
	}
	return nil
}
