package enrich

import (
	"testing"

	"github.com/minhtran99/jobflow/internal/model"
)

func TestClassifySeniority(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        model.Seniority
		wantNil     bool
	}{
		{
			name:  "senior beats junior mention in same title",
			title: "Senior Data Analyst (no junior experience required)",
			want:  model.SenioritySenior,
		},
		{
			name:  "senior manager lands on management",
			title: "Senior Marketing Manager",
			want:  model.SeniorityManager,
		},
		{
			name:  "lead is management",
			title: "Data Team Lead",
			want:  model.SeniorityManager,
		},
		{
			name:  "vietnamese management title",
			title: "Trưởng phòng Phân tích Dữ liệu",
			want:  model.SeniorityManager,
		},
		{
			name:  "vietnamese mid level",
			title: "Chuyên viên Phân tích Dữ liệu",
			want:  model.SeniorityMid,
		},
		{
			name:  "vietnamese intern",
			title: "Thực tập sinh Data Analyst",
			want:  model.SeniorityIntern,
		},
		{
			name:  "director outranks everything",
			title: "Director of Data, Senior team",
			want:  model.SeniorityDirectorVP,
		},
		{
			name:        "title silent, description decides",
			title:       "Data Analyst",
			description: "Ít nhất 5 năm kinh nghiệm ở vị trí senior.",
			want:        model.SenioritySenior,
		},
		{
			name:        "junior in description",
			title:       "Data Analyst",
			description: "Phù hợp với ứng viên fresher hoặc junior.",
			want:        model.SeniorityJunior,
		},
		{
			name:    "no signal anywhere",
			title:   "Data Analyst",
			wantNil: true,
		},
		{
			name:    "keyword inside a longer word does not match",
			title:   "Internal Tools Analyst",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifySeniority(tt.title, tt.description)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil, got %s", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %s, got nil", tt.want)
			}
			if *got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, *got)
			}
		})
	}
}
