package enrich

import (
	"regexp"
	"sort"
	"strings"

	"github.com/minhtran99/jobflow/internal/model"
)

// SkillDef names one skill, its category, and the keywords that signal it.
type SkillDef struct {
	Name     string
	Category string
	Keywords []string
}

// DefaultSkills is the dictionary used when the config does not override it,
// tuned for data roles on Vietnamese boards.
func DefaultSkills() []SkillDef {
	return []SkillDef{
		{Name: "SQL", Category: "Language", Keywords: []string{"sql", "mysql", "postgresql", "sql server", "t-sql"}},
		{Name: "Python", Category: "Language", Keywords: []string{"python", "pandas", "numpy"}},
		{Name: "R", Category: "Language", Keywords: []string{"r programming", "rstudio", "ngôn ngữ r"}},
		{Name: "Excel", Category: "Tool", Keywords: []string{"excel", "vba", "pivot table", "power query"}},
		{Name: "Power BI", Category: "Tool", Keywords: []string{"power bi", "powerbi", "dax"}},
		{Name: "Tableau", Category: "Tool", Keywords: []string{"tableau"}},
		{Name: "Looker", Category: "Tool", Keywords: []string{"looker", "looker studio", "data studio"}},
		{Name: "Google Analytics", Category: "Platform", Keywords: []string{"google analytics", "ga4"}},
		{Name: "BigQuery", Category: "Database", Keywords: []string{"bigquery", "big query"}},
		{Name: "Spark", Category: "Technology", Keywords: []string{"spark", "pyspark", "hadoop"}},
		{Name: "Airflow", Category: "Technology", Keywords: []string{"airflow"}},
		{Name: "ETL", Category: "Technology", Keywords: []string{"etl", "data pipeline", "data warehouse"}},
		{Name: "Machine Learning", Category: "Skill", Keywords: []string{"machine learning", "học máy", "scikit-learn", "ml model"}},
		{Name: "Statistics", Category: "Skill", Keywords: []string{"statistics", "statistical", "thống kê"}},
		{Name: "Data Visualization", Category: "Skill", Keywords: []string{"data visualization", "trực quan hóa", "trực quan hoá", "dashboard"}},
		{Name: "English", Category: "Soft Skill", Keywords: []string{"english", "tiếng anh", "toeic", "ielts"}},
		{Name: "Communication", Category: "Soft Skill", Keywords: []string{"communication", "giao tiếp", "presentation", "thuyết trình"}},
	}
}

// SkillExtractor matches a precompiled keyword dictionary against record
// text. Safe for concurrent use once built.
type SkillExtractor struct {
	defs     []SkillDef
	patterns [][]*regexp.Regexp // parallel to defs
}

func NewSkillExtractor(defs []SkillDef) *SkillExtractor {
	e := &SkillExtractor{defs: defs}
	for _, def := range defs {
		compiled := make([]*regexp.Regexp, 0, len(def.Keywords))
		for _, kw := range def.Keywords {
			compiled = append(compiled, keywordPattern(kw))
		}
		e.patterns = append(e.patterns, compiled)
	}
	return e
}

// Extract returns every skill whose keywords appear as whole words in the
// title or description. Each skill appears at most once, sorted by name so
// output order never depends on match order.
func (e *SkillExtractor) Extract(title, description string) []model.Skill {
	text := strings.ToLower(CleanText(title + " " + description))
	if text == "" {
		return nil
	}

	var skills []model.Skill
	for i, def := range e.defs {
		for _, re := range e.patterns[i] {
			if re.MatchString(text) {
				skills = append(skills, model.Skill{Name: def.Name, Category: def.Category})
				break
			}
		}
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills
}
