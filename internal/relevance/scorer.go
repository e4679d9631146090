package relevance

import (
	"context"
	"strings"
)

// Scorer rates how well a record's text matches the search query, on [0, 1].
type Scorer interface {
	Score(ctx context.Context, query, text string) (float64, error)
}

// KeywordScorer is the degraded path: the fraction of query terms that
// appear in the record text. It never fails.
type KeywordScorer struct{}

func (KeywordScorer) Score(_ context.Context, query, text string) (float64, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0, nil
	}
	haystack := strings.ToLower(text)
	matched := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms)), nil
}
