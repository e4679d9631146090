package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/minhtran99/jobflow/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedFetcher returns a scripted result per page number.
type scriptedFetcher struct {
	pages map[int]pageResult
	calls []int
}

type pageResult struct {
	jobs []model.RawJob
	err  error
}

func (s *scriptedFetcher) FetchPage(_ context.Context, _ string, page int) ([]model.RawJob, error) {
	s.calls = append(s.calls, page)
	res := s.pages[page]
	return res.jobs, res.err
}

func rawJob(source, id string) model.RawJob {
	return model.RawJob{
		Source:   source,
		NativeID: id,
		URL:      fmt.Sprintf("https://example.com/%s/%s", source, id),
		Title:    "Data Analyst",
	}
}

func TestCollect_AccumulatesAcrossPages(t *testing.T) {
	f := &scriptedFetcher{pages: map[int]pageResult{
		1: {jobs: []model.RawJob{rawJob("topcv", "1"), rawJob("topcv", "2")}},
		2: {jobs: []model.RawJob{rawJob("topcv", "3")}},
		3: {},
		4: {},
	}}

	c := NewCollector("topcv", f, 10, 100, discardLogger())
	out := c.Collect(context.Background(), "data analyst")

	if len(out.Jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(out.Jobs))
	}
	// Two consecutive empty pages end the listing; page 5 is never fetched.
	if len(f.calls) != 4 {
		t.Fatalf("expected 4 page fetches, got %v", f.calls)
	}
	if out.PagesFetched != 4 || out.PagesFailed != 0 {
		t.Fatalf("unexpected page counts: fetched=%d failed=%d", out.PagesFetched, out.PagesFailed)
	}
	if out.LastError != "" {
		t.Fatalf("unexpected error: %s", out.LastError)
	}
}

func TestCollect_FailedPageIsNonFatal(t *testing.T) {
	f := &scriptedFetcher{pages: map[int]pageResult{
		1: {jobs: []model.RawJob{rawJob("topcv", "1")}},
		2: {err: &model.HTTPError{StatusCode: 500, Err: errors.New("boom")}},
		3: {jobs: []model.RawJob{rawJob("topcv", "2")}},
	}}

	c := NewCollector("topcv", f, 3, 100, discardLogger())
	out := c.Collect(context.Background(), "data analyst")

	if len(out.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(out.Jobs))
	}
	if out.PagesFailed != 1 {
		t.Fatalf("expected 1 failed page, got %d", out.PagesFailed)
	}
	if out.PagesFetched != 2 {
		t.Fatalf("expected 2 fetched pages, got %d", out.PagesFetched)
	}
	if out.LastError != "" {
		t.Fatalf("a failed page must not set LastError, got %q", out.LastError)
	}
}

func TestCollect_StopsAtMaxResults(t *testing.T) {
	f := &scriptedFetcher{pages: map[int]pageResult{
		1: {jobs: []model.RawJob{rawJob("topcv", "1"), rawJob("topcv", "2"), rawJob("topcv", "3")}},
		2: {jobs: []model.RawJob{rawJob("topcv", "4")}},
	}}

	c := NewCollector("topcv", f, 10, 2, discardLogger())
	out := c.Collect(context.Background(), "data analyst")

	if len(out.Jobs) != 2 {
		t.Fatalf("expected 2 jobs (max results), got %d", len(out.Jobs))
	}
	if len(f.calls) != 1 {
		t.Fatalf("expected 1 page fetch, got %v", f.calls)
	}
}

func TestCollect_SkipsDuplicateURLsWithinRun(t *testing.T) {
	dup := rawJob("topcv", "1")
	f := &scriptedFetcher{pages: map[int]pageResult{
		1: {jobs: []model.RawJob{dup, rawJob("topcv", "2")}},
		2: {jobs: []model.RawJob{dup}},
		3: {},
	}}

	c := NewCollector("topcv", f, 10, 100, discardLogger())
	out := c.Collect(context.Background(), "data analyst")

	if len(out.Jobs) != 2 {
		t.Fatalf("expected 2 unique jobs, got %d", len(out.Jobs))
	}
	// Page 2 yielded nothing new, page 3 was empty — streak of two ends the run.
	if len(f.calls) != 3 {
		t.Fatalf("expected 3 page fetches, got %v", f.calls)
	}
}

func TestCollect_FatalErrorAbortsSource(t *testing.T) {
	f := &scriptedFetcher{pages: map[int]pageResult{
		1: {jobs: []model.RawJob{rawJob("topcv", "1")}},
		2: {
			jobs: []model.RawJob{rawJob("topcv", "2")},
			err:  &model.FatalError{Err: errors.New("blocked")},
		},
		3: {jobs: []model.RawJob{rawJob("topcv", "3")}},
	}}

	c := NewCollector("topcv", f, 10, 100, discardLogger())
	out := c.Collect(context.Background(), "data analyst")

	// Partial records fetched before the abort are preserved.
	if len(out.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(out.Jobs))
	}
	if out.LastError == "" {
		t.Fatal("expected LastError to record the fatal condition")
	}
	if len(f.calls) != 2 {
		t.Fatalf("expected collection to stop after fatal error, calls=%v", f.calls)
	}
}

func TestCollect_CancelledContextStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &scriptedFetcher{pages: map[int]pageResult{
		1: {jobs: []model.RawJob{rawJob("topcv", "1")}},
	}}

	c := NewCollector("topcv", f, 10, 100, discardLogger())
	out := c.Collect(ctx, "data analyst")

	if len(f.calls) != 0 {
		t.Fatalf("expected no fetches on cancelled context, got %v", f.calls)
	}
	if out.LastError == "" {
		t.Fatal("expected LastError to record the cancellation")
	}
}
