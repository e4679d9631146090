package store

import "github.com/minhtran99/jobflow/internal/model"

// NopStore is a no-op store used in dry-run mode. Nothing is persisted, so a
// run only reports what it would have loaded.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) LoadJobs(jobs []model.EnrichedJob) (LoadStats, error) {
	return LoadStats{Inserted: len(jobs)}, nil
}

func (s *NopStore) CountJobs() (int, error) { return 0, nil }
func (s *NopStore) Close() error            { return nil }
