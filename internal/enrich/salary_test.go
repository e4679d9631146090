package enrich

import "testing"

func int64p(v int64) *int64 { return &v }

func TestParseSalary(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		min, max *int64
		currency string
	}{
		{
			name: "vnd range with trailing unit",
			text: "15 - 20 triệu",
			min:  int64p(15_000_000), max: int64p(20_000_000), currency: "VND",
		},
		{
			name: "reversed range is normalized",
			text: "30-20 triệu",
			min:  int64p(20_000_000), max: int64p(30_000_000), currency: "VND",
		},
		{
			name: "careerviet tr spelling",
			text: "Lương: 18 Tr - 25 Tr VND",
			min:  int64p(18_000_000), max: int64p(25_000_000), currency: "VND",
		},
		{
			name: "usd range with separators",
			text: "$1,500 - $2,500",
			min:  int64p(1500), max: int64p(2500), currency: "USD",
		},
		{
			name: "usd k multiplier",
			text: "1.5k - 2k USD",
			min:  int64p(1500), max: int64p(2000), currency: "USD",
		},
		{
			name: "upper bound only",
			text: "Tối đa 25 triệu",
			max:  int64p(25_000_000), currency: "VND",
		},
		{
			name: "lower bound only",
			text: "Từ 15 triệu",
			min:  int64p(15_000_000), currency: "VND",
		},
		{
			name: "up to dollars",
			text: "up to $2,000",
			max:  int64p(2000), currency: "USD",
		},
		{
			name: "bare single value is not inflated",
			text: "20 triệu",
			min:  int64p(20_000_000), max: int64p(20_000_000), currency: "VND",
		},
		{
			name: "absolute vnd amount",
			text: "Mức lương 25.000.000 VNĐ",
			min:  int64p(25_000_000), max: int64p(25_000_000), currency: "VND",
		},
		{name: "negotiable vietnamese", text: "Thỏa thuận"},
		{name: "negotiable english", text: "Salary: negotiable"},
		{name: "empty text", text: ""},
		{name: "whitespace only", text: "   "},
		{
			name: "experience range is not a salary",
			text: "Yêu cầu 3-5 năm kinh nghiệm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSalary(tt.text)
			checkBound(t, "min", got.Min, tt.min)
			checkBound(t, "max", got.Max, tt.max)
			switch {
			case tt.currency == "":
				if !got.IsZero() {
					t.Errorf("expected no salary, got %+v", got)
				}
			case got.Currency == nil:
				t.Errorf("expected currency %s, got nil", tt.currency)
			case *got.Currency != tt.currency:
				t.Errorf("expected currency %s, got %s", tt.currency, *got.Currency)
			}
		})
	}
}

func checkBound(t *testing.T, label string, got, want *int64) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s: expected nil, got %d", label, *got)
	case want != nil && got == nil:
		t.Errorf("%s: expected %d, got nil", label, *want)
	case want != nil && *got != *want:
		t.Errorf("%s: expected %d, got %d", label, *want, *got)
	}
}

func TestMaterialDisagreement(t *testing.T) {
	a := SalaryRange{Min: int64p(15_000_000), Max: int64p(20_000_000)}
	close := SalaryRange{Min: int64p(14_000_000), Max: int64p(22_000_000)}
	far := SalaryRange{Min: int64p(50_000_000), Max: int64p(80_000_000)}

	if materialDisagreement(a, close) {
		t.Error("ranges within 2x must not be flagged")
	}
	if !materialDisagreement(a, far) {
		t.Error("ranges beyond 2x must be flagged")
	}
	if materialDisagreement(a, SalaryRange{}) {
		t.Error("empty range has nothing to disagree with")
	}
}
