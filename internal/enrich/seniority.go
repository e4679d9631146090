package enrich

import (
	"regexp"
	"strings"

	"github.com/minhtran99/jobflow/internal/model"
)

// seniorityRules are checked most-senior-first so "Senior Manager" lands on
// the management level, not on senior. Keywords match on word boundaries.
var seniorityRules = []struct {
	level    model.Seniority
	keywords []string
}{
	{model.SeniorityDirectorVP, []string{
		"director", "vice president", "vp", "chief", "head of department",
		"giám đốc", "phó giám đốc",
	}},
	{model.SeniorityManager, []string{
		"manager", "lead", "head of", "team lead", "supervisor",
		"quản lý", "trưởng phòng", "trưởng nhóm", "trưởng bộ phận",
	}},
	{model.SenioritySenior, []string{
		"senior", "sr", "principal", "staff", "cao cấp", "chuyên gia",
	}},
	{model.SeniorityMid, []string{
		"mid-level", "mid level", "middle", "experienced", "chuyên viên",
	}},
	{model.SeniorityJunior, []string{
		"junior", "jr", "fresher", "entry-level", "entry level", "graduate",
		"mới tốt nghiệp",
	}},
	{model.SeniorityIntern, []string{
		"intern", "internship", "trainee", "thực tập sinh", "thực tập",
	}},
}

var seniorityPatterns = compileSeniorityPatterns()

func compileSeniorityPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	for _, rule := range seniorityRules {
		for _, kw := range rule.keywords {
			patterns[kw] = keywordPattern(kw)
		}
	}
	return patterns
}

// keywordPattern builds a case-insensitive whole-word matcher. Go's \b is
// ASCII-only, so boundaries around accented Vietnamese keywords are checked
// explicitly against letters on either side.
func keywordPattern(kw string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\pL\pN])` + regexp.QuoteMeta(kw) + `(?:$|[^\pL\pN])`)
}

// ClassifySeniority infers the seniority level from the title, falling back
// to the description only when the title decides nothing. Returns nil when
// neither text mentions a level.
func ClassifySeniority(title, description string) *model.Seniority {
	if level := matchSeniority(title); level != nil {
		return level
	}
	return matchSeniority(description)
}

func matchSeniority(text string) *model.Seniority {
	text = strings.ToLower(CleanText(text))
	if text == "" {
		return nil
	}
	for _, rule := range seniorityRules {
		for _, kw := range rule.keywords {
			if seniorityPatterns[kw].MatchString(text) {
				level := rule.level
				return &level
			}
		}
	}
	return nil
}
