package enrich

import (
	"testing"
)

func TestSkillExtractor_Extract(t *testing.T) {
	e := NewSkillExtractor(DefaultSkills())

	skills := e.Extract(
		"Chuyên viên Phân tích Dữ liệu",
		"Thành thạo SQL và Excel, trực quan hóa bằng Power BI. Yêu cầu tiếng Anh giao tiếp.",
	)

	want := []string{"Communication", "Data Visualization", "English", "Excel", "Power BI", "SQL"}
	if len(skills) != len(want) {
		t.Fatalf("expected %d skills, got %d: %+v", len(want), len(skills), skills)
	}
	for i, name := range want {
		if skills[i].Name != name {
			t.Errorf("skills[%d] = %s, want %s", i, skills[i].Name, name)
		}
	}
}

func TestSkillExtractor_OneEntryPerSkill(t *testing.T) {
	e := NewSkillExtractor(DefaultSkills())

	// Several keywords of the same skill must collapse to one entry.
	skills := e.Extract("Data Analyst", "Yêu cầu SQL, MySQL và PostgreSQL.")
	if len(skills) != 1 || skills[0].Name != "SQL" {
		t.Fatalf("expected single SQL entry, got %+v", skills)
	}
	if skills[0].Category != "Language" {
		t.Errorf("expected category Language, got %s", skills[0].Category)
	}
}

func TestSkillExtractor_WholeWordOnly(t *testing.T) {
	e := NewSkillExtractor([]SkillDef{
		{Name: "R", Category: "Language", Keywords: []string{"r programming"}},
		{Name: "ETL", Category: "Technology", Keywords: []string{"etl"}},
	})

	if skills := e.Extract("Betless Analyst", "Quarterly reporting role."); len(skills) != 0 {
		t.Fatalf("substring matches must not count, got %+v", skills)
	}
	if skills := e.Extract("ETL Developer", ""); len(skills) != 1 {
		t.Fatalf("expected ETL match, got %+v", skills)
	}
}

func TestSkillExtractor_EmptyText(t *testing.T) {
	e := NewSkillExtractor(DefaultSkills())
	if skills := e.Extract("", "  "); skills != nil {
		t.Fatalf("expected nil for empty text, got %+v", skills)
	}
}
