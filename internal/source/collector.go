package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minhtran99/jobflow/internal/model"
)

// endOfListingStreak is the number of consecutive pages yielding zero new
// records that signals the board has run out of results.
const endOfListingStreak = 2

// Collector drives the page loop for one source: rate-limited, retried page
// fetches, per-page failure isolation, duplicate-URL suppression, and early
// stop on max results or end of listing.
type Collector struct {
	source     string
	fetcher    model.PageFetcher
	maxPages   int
	maxResults int
	logger     *slog.Logger
}

// NewCollector wires a collector for one source. fetcher is expected to
// already be wrapped with the ratelimit and retry decorators.
func NewCollector(source string, fetcher model.PageFetcher, maxPages, maxResults int, logger *slog.Logger) *Collector {
	return &Collector{
		source:     source,
		fetcher:    fetcher,
		maxPages:   maxPages,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Source returns the source name this collector targets.
func (c *Collector) Source() string { return c.source }

// Collect runs the page loop for the given query and returns the per-source
// outcome. A page that exhausts its retries is recorded as failed and
// collection continues; only a fatal source error or context cancellation
// ends the run early, and records accumulated up to that point are preserved
// in the outcome.
func (c *Collector) Collect(ctx context.Context, query string) model.ScrapeOutcome {
	start := time.Now()
	out := model.ScrapeOutcome{Source: c.source}
	visited := make(map[string]bool)
	emptyStreak := 0

	for page := 1; page <= c.maxPages; page++ {
		if ctx.Err() != nil {
			out.LastError = fmt.Sprintf("cancelled at page %d: %v", page, ctx.Err())
			break
		}

		jobs, err := c.fetcher.FetchPage(ctx, query, page)

		// Partial records returned alongside a fatal error still count.
		newOnPage := 0
		for _, j := range jobs {
			if visited[j.URL] {
				continue
			}
			visited[j.URL] = true
			out.Jobs = append(out.Jobs, j)
			newOnPage++
			if c.maxResults > 0 && len(out.Jobs) >= c.maxResults {
				break
			}
		}

		if err != nil {
			if model.IsFatal(err) {
				out.LastError = err.Error()
				c.logger.Error("source aborted", "source", c.source, "page", page, "error", err)
				break
			}
			if ctx.Err() != nil {
				out.LastError = fmt.Sprintf("cancelled at page %d: %v", page, ctx.Err())
				break
			}
			out.PagesFailed++
			c.logger.Warn("page failed after retries, continuing",
				"source", c.source, "page", page, "error", err)
			continue
		}

		out.PagesFetched++
		c.logger.Debug("page collected",
			"source", c.source, "page", page, "new_records", newOnPage, "total", len(out.Jobs))

		if c.maxResults > 0 && len(out.Jobs) >= c.maxResults {
			c.logger.Info("max results reached", "source", c.source, "records", len(out.Jobs))
			break
		}

		if newOnPage == 0 {
			emptyStreak++
			if emptyStreak >= endOfListingStreak {
				c.logger.Debug("end of listing", "source", c.source, "page", page)
				break
			}
		} else {
			emptyStreak = 0
		}
	}

	out.Elapsed = time.Since(start)
	return out
}
