package model

import (
	"context"
	"time"
)

// RawJob is a single listing as scraped from one platform, before any
// normalization. Immutable once emitted by a collector.
type RawJob struct {
	Source      string    // platform name, e.g. "topcv"
	NativeID    string    // platform-native job ID (usually from the URL slug)
	URL         string    // absolute detail-page URL
	Title       string    // as-listed title text
	Company     string    // as-listed company text
	Location    string    // as-listed location text
	PostedText  string    // raw posted-date text, no parsing
	SalaryText  string    // raw compensation text, if the platform has a field
	Description string    // detail-page description, HTML or text
	FetchedAt   time.Time // our clock
}

// ScrapeOutcome is the result of one collector run against one source.
type ScrapeOutcome struct {
	Source       string
	Jobs         []RawJob
	PagesFetched int
	PagesFailed  int
	LastError    string // empty unless the source ended with a fatal error or timeout
	Elapsed      time.Duration
}

// SourceStats summarizes one source's contribution inside a RunReport.
type SourceStats struct {
	Records      int
	PagesFetched int
	PagesFailed  int
	Error        string
	Elapsed      time.Duration
}

// RunReport aggregates all per-source outcomes of one orchestrator run.
// Read-only after the run completes.
type RunReport struct {
	Query        string
	StartedAt    time.Time
	Elapsed      time.Duration
	TotalRecords int
	Order        []string // source names in enumeration order
	Sources      map[string]SourceStats
}

// Skill is one extracted skill tag.
type Skill struct {
	Name     string
	Category string
}

// Seniority is one level of the fixed, priority-ordered seniority scale.
type Seniority string

const (
	SeniorityIntern     Seniority = "intern"
	SeniorityJunior     Seniority = "junior"
	SeniorityMid        Seniority = "mid"
	SenioritySenior     Seniority = "senior"
	SeniorityManager    Seniority = "manager_lead"
	SeniorityDirectorVP Seniority = "director_vp"
)

// EnrichedJob is a RawJob after the transformation pipeline. Optional fields
// are nil pointers when extraction found nothing, never empty-string
// placeholders or zero salaries.
type EnrichedJob struct {
	RawJob

	NormTitle    *string
	NormCompany  *string
	NormLocation *string

	Seniority *Seniority

	SalaryMin      *int64
	SalaryMax      *int64
	SalaryCurrency *string

	Skills []Skill

	Relevance  float64
	IsRelevant bool
}

// PageFetcher fetches one listing page of search results from a source.
// Implementations are decorated with rate limiting and retry before use.
type PageFetcher interface {
	FetchPage(ctx context.Context, query string, page int) ([]RawJob, error)
}
