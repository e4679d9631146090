package relevance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/minhtran99/jobflow/internal/model"
)

const defaultEmbeddingModel = "text-embedding-3-small"

// EmbeddingScorer scores relevance as the cosine similarity between the
// query and record embeddings, fetched from an OpenAI-compatible
// /embeddings endpoint. Any transport or API failure is reported as
// model.ErrModelUnavailable so callers can switch to the keyword path.
type EmbeddingScorer struct {
	baseURL string
	apiKey  string
	model   string
	hc      *http.Client
}

func NewEmbeddingScorer(baseURL, apiKey, embeddingModel string, timeout time.Duration) *EmbeddingScorer {
	if embeddingModel == "" {
		embeddingModel = defaultEmbeddingModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &EmbeddingScorer{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   embeddingModel,
		hc:      &http.Client{Timeout: timeout},
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

func (s *EmbeddingScorer) Score(ctx context.Context, query, text string) (float64, error) {
	vecs, err := s.embed(ctx, []string{query, text})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrModelUnavailable, err)
	}
	return cosine(vecs[0], vecs[1]), nil
}

func (s *EmbeddingScorer) embed(ctx context.Context, inputs []string) ([][]float64, error) {
	body, err := json.Marshal(embeddingRequest{Model: s.model, Input: inputs})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call embeddings API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("embeddings API returned %d: %s", resp.StatusCode, raw)
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Data) != len(inputs) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(inputs), len(parsed.Data))
	}

	vecs := make([][]float64, len(parsed.Data))
	for i, d := range parsed.Data {
		vecs[i] = d.Embedding
	}
	return vecs, nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
