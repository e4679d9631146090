package notifier

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/minhtran99/jobflow/internal/model"
)

func sampleSummary() Summary {
	return Summary{
		Report: model.RunReport{
			Query:        "data analyst",
			TotalRecords: 12,
			Order:        []string{"topcv", "careerviet"},
			Sources: map[string]model.SourceStats{
				"topcv":      {Records: 8, PagesFetched: 3},
				"careerviet": {Records: 4, PagesFetched: 2, Error: "source timed out after 2m0s"},
			},
			Elapsed: 42 * time.Second,
		},
		Inserted: 9,
		Skipped:  3,
		Warnings: []string{"relevance model unavailable, scoring remaining records by keyword overlap"},
	}
}

func TestLogNotifier_Notify_emptySummary(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	n := NewLogNotifier(logger)
	if err := n.Notify(Summary{}); err != nil {
		t.Errorf("Notify(Summary{}) = %v, want nil", err)
	}
}

func TestLogNotifier_Notify_fullSummary_returnsNil(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	n := NewLogNotifier(logger)
	if err := n.Notify(sampleSummary()); err != nil {
		t.Errorf("Notify(summary) = %v, want nil", err)
	}
}
