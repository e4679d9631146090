package relevance

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minhtran99/jobflow/internal/model"
)

func TestEmbeddingScorer_Score(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Fatalf("expected 2 inputs, got %d", len(req.Input))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{1, 0}},
				{"embedding": []float64{math.Sqrt2 / 2, math.Sqrt2 / 2}},
			},
		})
	}))
	defer srv.Close()

	s := NewEmbeddingScorer(srv.URL, "test-key", "", 5*time.Second)
	score, err := s.Score(context.Background(), "data analyst", "job text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// cos(45°)
	if math.Abs(score-math.Sqrt2/2) > 1e-9 {
		t.Errorf("score = %f, want %f", score, math.Sqrt2/2)
	}
}

func TestEmbeddingScorer_APIFailureIsModelUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewEmbeddingScorer(srv.URL, "test-key", "", 5*time.Second)
	_, err := s.Score(context.Background(), "q", "t")
	if !errors.Is(err, model.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestEmbeddingScorer_UnreachableHost(t *testing.T) {
	s := NewEmbeddingScorer("http://127.0.0.1:1", "test-key", "", time.Second)
	_, err := s.Score(context.Background(), "q", "t")
	if !errors.Is(err, model.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestCosine(t *testing.T) {
	if got := cosine([]float64{1, 2, 3}, []float64{1, 2, 3}); math.Abs(got-1) > 1e-9 {
		t.Errorf("identical vectors: %f", got)
	}
	if got := cosine([]float64{1, 0}, []float64{0, 1}); got != 0 {
		t.Errorf("orthogonal vectors: %f", got)
	}
	if got := cosine([]float64{1, 2}, []float64{1, 2, 3}); got != 0 {
		t.Errorf("mismatched lengths: %f", got)
	}
	if got := cosine(nil, nil); got != 0 {
		t.Errorf("empty vectors: %f", got)
	}
}
