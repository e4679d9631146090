package relevance

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/minhtran99/jobflow/internal/model"
)

// Default thresholds for the two scoring paths. Cosine similarity and
// keyword overlap live on different scales, so each path gets its own.
const (
	DefaultThreshold        = 0.3
	DefaultKeywordThreshold = 0.5
)

// Filter decides whether a record is relevant to the query. When an
// embedding scorer is configured it is the active path; the first
// model.ErrModelUnavailable failure permanently downgrades the run to the
// keyword scorer, with a single warning.
type Filter struct {
	primary          Scorer // nil when embeddings are disabled
	fallback         Scorer
	threshold        float64
	keywordThreshold float64
	logger           *slog.Logger

	mu       sync.Mutex
	degraded bool
	warnings []string
}

func NewFilter(primary Scorer, threshold, keywordThreshold float64, logger *slog.Logger) *Filter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if keywordThreshold <= 0 {
		keywordThreshold = DefaultKeywordThreshold
	}
	return &Filter{
		primary:          primary,
		fallback:         KeywordScorer{},
		threshold:        threshold,
		keywordThreshold: keywordThreshold,
		logger:           logger,
	}
}

// Score rates one record and applies the active path's threshold.
func (f *Filter) Score(ctx context.Context, query, text string) (score float64, relevant bool) {
	if f.primaryActive() {
		score, err := f.primary.Score(ctx, query, text)
		if err == nil {
			return score, score >= f.threshold
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, false
		}
		f.degrade(err)
	}
	score, _ = f.fallback.Score(ctx, query, text)
	return score, score >= f.keywordThreshold
}

func (f *Filter) primaryActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.primary != nil && !f.degraded
}

func (f *Filter) degrade(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.degraded {
		return
	}
	f.degraded = true
	f.warnings = append(f.warnings, "relevance model unavailable, scoring remaining records by keyword overlap")
	if errors.Is(err, model.ErrModelUnavailable) {
		f.logger.Warn("relevance model unavailable, falling back to keyword scoring", "error", err)
	} else {
		f.logger.Warn("relevance scorer failed, falling back to keyword scoring", "error", err)
	}
}

// Warnings returns the degradation warnings accumulated so far.
func (f *Filter) Warnings() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.warnings...)
}
