package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/minhtran99/jobflow/internal/model"
	"github.com/minhtran99/jobflow/internal/relevance"
)

// descriptionScoringLimit caps how much description text feeds the
// relevance scorer; the opening covers the role, the tail is benefits
// boilerplate.
const descriptionScoringLimit = 500

// Pipeline turns raw scraped records into enriched ones: field
// normalization, salary extraction, seniority classification, skill
// extraction, relevance scoring, then dedup. Stages never drop a record;
// a field that cannot be derived stays absent.
type Pipeline struct {
	skills *SkillExtractor
	filter *relevance.Filter
	logger *slog.Logger
}

func NewPipeline(skills *SkillExtractor, filter *relevance.Filter, logger *slog.Logger) *Pipeline {
	return &Pipeline{skills: skills, filter: filter, logger: logger}
}

// Run enriches every record and returns the deduplicated result plus any
// run-level warnings (salary conflicts, relevance downgrade).
func (p *Pipeline) Run(ctx context.Context, query string, raws []model.RawJob) ([]model.EnrichedJob, []string) {
	var warnings []string

	enriched := make([]model.EnrichedJob, 0, len(raws))
	for _, raw := range raws {
		if ctx.Err() != nil {
			break
		}
		job := p.enrichOne(ctx, query, raw, &warnings)
		enriched = append(enriched, job)
	}

	before := len(enriched)
	enriched = Dedupe(enriched)
	if dropped := before - len(enriched); dropped > 0 {
		p.logger.Info("duplicates removed", "count", dropped)
	}

	warnings = append(warnings, p.filter.Warnings()...)
	return enriched, warnings
}

func (p *Pipeline) enrichOne(ctx context.Context, query string, raw model.RawJob, warnings *[]string) model.EnrichedJob {
	job := model.EnrichedJob{RawJob: raw}

	job.NormTitle = NormalizeField(raw.Title)
	job.NormCompany = NormalizeField(raw.Company)
	job.NormLocation = NormalizeField(raw.Location)

	p.applySalary(raw, &job, warnings)

	title := deref(job.NormTitle)
	description := CleanText(raw.Description)

	job.Seniority = ClassifySeniority(title, description)
	job.Skills = p.skills.Extract(title, description)

	job.Relevance, job.IsRelevant = p.filter.Score(ctx, query, scoringText(title, description))
	return job
}

// applySalary prefers the dedicated salary field; the description is a
// fallback, and a material disagreement between the two is surfaced as a
// warning with the dedicated field winning.
func (p *Pipeline) applySalary(raw model.RawJob, job *model.EnrichedJob, warnings *[]string) {
	field := ParseSalary(raw.SalaryText)
	desc := ParseSalary(raw.Description)

	chosen := field
	if chosen.IsZero() {
		chosen = desc
	} else if !desc.IsZero() && materialDisagreement(field, desc) {
		*warnings = append(*warnings, fmt.Sprintf(
			"salary conflict for %s/%s: listing field kept over description figure",
			raw.Source, raw.NativeID))
		p.logger.Warn("salary figures disagree",
			"source", raw.Source,
			"native_id", raw.NativeID,
			"salary_text", raw.SalaryText,
		)
	}

	job.SalaryMin = chosen.Min
	job.SalaryMax = chosen.Max
	job.SalaryCurrency = chosen.Currency
}

func scoringText(title, description string) string {
	if len(description) > descriptionScoringLimit {
		cut := descriptionScoringLimit
		for cut < len(description) && !utf8.RuneStart(description[cut]) {
			cut++
		}
		description = description[:cut]
	}
	return title + " " + description
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
