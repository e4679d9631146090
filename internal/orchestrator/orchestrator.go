package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/minhtran99/jobflow/internal/model"
)

// SourceCollector is the capability the orchestrator fans out over: one
// collector per enabled listing source.
type SourceCollector interface {
	Source() string
	Collect(ctx context.Context, query string) model.ScrapeOutcome
}

// Orchestrator runs all enabled source collectors concurrently, bounds each
// with a wall-clock timeout, and merges their outcomes into one raw record
// set plus a run report. A failing or slow source never affects the others.
type Orchestrator struct {
	collectors []SourceCollector
	timeout    time.Duration // per-source wall-clock budget
	logger     *slog.Logger
}

// New creates an orchestrator over the given collectors. The collectors slice
// fixes the source enumeration order used for merging.
func New(collectors []SourceCollector, perSourceTimeout time.Duration, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		collectors: collectors,
		timeout:    perSourceTimeout,
		logger:     logger,
	}
}

// Run collects from every source concurrently and returns the merged raw
// records plus the run report. It fails fast on misconfiguration (no enabled
// sources); per-source failures and timeouts are recorded in the report, not
// returned as errors.
func (o *Orchestrator) Run(ctx context.Context, query string) ([]model.RawJob, model.RunReport, error) {
	if len(o.collectors) == 0 {
		return nil, model.RunReport{}, errors.New("no sources enabled")
	}

	start := time.Now()
	o.logger.Info("collection started",
		"query", query,
		"sources", len(o.collectors),
		"per_source_timeout", o.timeout.String(),
	)

	// One outcome slot per collector; each goroutine writes only its own
	// slot, so the merge below needs no locking.
	outcomes := make([]model.ScrapeOutcome, len(o.collectors))

	var g errgroup.Group
	for i, c := range o.collectors {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, o.timeout)
			defer cancel()

			out := c.Collect(cctx, query)

			// A deadline hit inside the collector shows up as a cancel
			// message; rewrite it into the timeout wording operators expect.
			if cctx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
				out.LastError = fmt.Sprintf("source timed out after %s", o.timeout)
				o.logger.Warn("source timed out",
					"source", c.Source(),
					"timeout", o.timeout.String(),
					"partial_records", len(out.Jobs),
				)
			}

			outcomes[i] = out
			return nil // best-effort: never cancel sibling sources
		})
	}

	// Barrier: every source ran to completion, timeout, or cancellation.
	_ = g.Wait()

	var merged []model.RawJob
	report := model.RunReport{
		Query:     query,
		StartedAt: start.UTC(),
		Sources:   make(map[string]model.SourceStats, len(outcomes)),
	}

	for _, out := range outcomes {
		merged = append(merged, out.Jobs...)
		report.Order = append(report.Order, out.Source)
		report.Sources[out.Source] = model.SourceStats{
			Records:      len(out.Jobs),
			PagesFetched: out.PagesFetched,
			PagesFailed:  out.PagesFailed,
			Error:        out.LastError,
			Elapsed:      out.Elapsed,
		}

		o.logger.Info("source finished",
			"source", out.Source,
			"records", len(out.Jobs),
			"pages_fetched", out.PagesFetched,
			"pages_failed", out.PagesFailed,
			"error", out.LastError,
		)
	}

	report.TotalRecords = len(merged)
	report.Elapsed = time.Since(start)

	o.logger.Info("collection finished",
		"total_records", report.TotalRecords,
		"elapsed", report.Elapsed.String(),
	)

	return merged, report, nil
}
