package enrich

import (
	"testing"

	"github.com/minhtran99/jobflow/internal/model"
)

func enriched(source, nativeID string) model.EnrichedJob {
	return model.EnrichedJob{RawJob: model.RawJob{Source: source, NativeID: nativeID}}
}

func TestDedupe_KeepsFirstOccurrence(t *testing.T) {
	jobs := []model.EnrichedJob{
		enriched("topcv", "1"),
		enriched("careerviet", "1"),
		enriched("topcv", "2"),
		enriched("topcv", "1"),
		enriched("careerviet", "1"),
	}

	out := Dedupe(jobs)
	if len(out) != 3 {
		t.Fatalf("expected 3 unique records, got %d", len(out))
	}
	// Same native ID on different sources is not a duplicate; order is kept.
	want := []struct{ source, id string }{
		{"topcv", "1"}, {"careerviet", "1"}, {"topcv", "2"},
	}
	for i, w := range want {
		if out[i].Source != w.source || out[i].NativeID != w.id {
			t.Errorf("out[%d] = %s/%s, want %s/%s",
				i, out[i].Source, out[i].NativeID, w.source, w.id)
		}
	}
}

func TestDedupe_Empty(t *testing.T) {
	if out := Dedupe(nil); len(out) != 0 {
		t.Fatalf("expected empty output, got %d", len(out))
	}
}
