package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/minhtran99/jobflow/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCollector emits a fixed number of records, optionally stalling until
// the context is cancelled.
type fakeCollector struct {
	source  string
	records int
	stall   bool
	failure string
}

func (f *fakeCollector) Source() string { return f.source }

func (f *fakeCollector) Collect(ctx context.Context, _ string) model.ScrapeOutcome {
	out := model.ScrapeOutcome{Source: f.source, LastError: f.failure}
	for i := 0; i < f.records; i++ {
		out.Jobs = append(out.Jobs, model.RawJob{
			Source:   f.source,
			NativeID: fmt.Sprintf("%d", i),
			URL:      fmt.Sprintf("https://example.com/%s/%d", f.source, i),
		})
	}
	out.PagesFetched = 1
	if f.stall {
		<-ctx.Done()
		out.LastError = fmt.Sprintf("cancelled: %v", ctx.Err())
	}
	return out
}

func TestRun_MergesInEnumerationOrder(t *testing.T) {
	o := New([]SourceCollector{
		&fakeCollector{source: "topcv", records: 2},
		&fakeCollector{source: "careerviet", records: 1},
		&fakeCollector{source: "vieclam24h", records: 3},
	}, time.Second, discardLogger())

	merged, report, err := o.Run(context.Background(), "data analyst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(merged) != 6 {
		t.Fatalf("expected 6 merged records, got %d", len(merged))
	}
	// Merge order follows collector enumeration order regardless of which
	// goroutine finished first.
	wantOrder := []string{"topcv", "topcv", "careerviet", "vieclam24h", "vieclam24h", "vieclam24h"}
	for i, want := range wantOrder {
		if merged[i].Source != want {
			t.Fatalf("merged[%d].Source = %s, want %s", i, merged[i].Source, want)
		}
	}

	if report.TotalRecords != 6 {
		t.Errorf("report total = %d, want 6", report.TotalRecords)
	}
	for _, src := range []struct {
		name  string
		count int
	}{{"topcv", 2}, {"careerviet", 1}, {"vieclam24h", 3}} {
		if got := report.Sources[src.name].Records; got != src.count {
			t.Errorf("report[%s].Records = %d, want %d", src.name, got, src.count)
		}
	}
}

func TestRun_PerSourceCountsMatchContribution(t *testing.T) {
	o := New([]SourceCollector{
		&fakeCollector{source: "topcv", records: 4},
		&fakeCollector{source: "careerviet", records: 2},
	}, time.Second, discardLogger())

	merged, report, err := o.Run(context.Background(), "data analyst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	contributions := make(map[string]int)
	for _, j := range merged {
		contributions[j.Source]++
	}
	for source, stats := range report.Sources {
		if contributions[source] != stats.Records {
			t.Errorf("source %s: merged contribution %d != reported %d",
				source, contributions[source], stats.Records)
		}
	}
}

func TestRun_TimeoutIsolatesSlowSource(t *testing.T) {
	o := New([]SourceCollector{
		&fakeCollector{source: "topcv", records: 3},
		&fakeCollector{source: "careerviet", records: 1, stall: true},
	}, 50*time.Millisecond, discardLogger())

	merged, report, err := o.Run(context.Background(), "data analyst")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The slow source's partial records are preserved.
	if len(merged) != 4 {
		t.Fatalf("expected 4 merged records, got %d", len(merged))
	}
	if report.Sources["topcv"].Records != 3 || report.Sources["topcv"].Error != "" {
		t.Errorf("healthy source affected by sibling timeout: %+v", report.Sources["topcv"])
	}
	slow := report.Sources["careerviet"]
	if slow.Error == "" {
		t.Error("expected timeout recorded for slow source")
	}
	if slow.Records != 1 {
		t.Errorf("expected partial records preserved, got %d", slow.Records)
	}
}

func TestRun_FailedSourceRecordedNotPropagated(t *testing.T) {
	o := New([]SourceCollector{
		&fakeCollector{source: "topcv", records: 0, failure: "fatal: blocked"},
		&fakeCollector{source: "careerviet", records: 2},
	}, time.Second, discardLogger())

	merged, report, err := o.Run(context.Background(), "data analyst")
	if err != nil {
		t.Fatalf("source failure must not fail the run: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 records from the healthy source, got %d", len(merged))
	}
	if report.Sources["topcv"].Error == "" {
		t.Error("expected failure recorded in report")
	}
}

func TestRun_NoSourcesFailsFast(t *testing.T) {
	o := New(nil, time.Second, discardLogger())
	_, _, err := o.Run(context.Background(), "data analyst")
	if err == nil {
		t.Fatal("expected error for empty source set, got nil")
	}
}
