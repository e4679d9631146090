package enrich

import "github.com/minhtran99/jobflow/internal/model"

// Dedupe drops records whose (source, native ID) pair was already seen,
// keeping the first occurrence and preserving input order.
func Dedupe(jobs []model.EnrichedJob) []model.EnrichedJob {
	type key struct{ source, nativeID string }
	seen := make(map[key]struct{}, len(jobs))
	out := jobs[:0:0]
	for _, j := range jobs {
		k := key{j.Source, j.NativeID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, j)
	}
	return out
}
