package enrich

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// SalaryRange is the outcome of parsing one piece of salary text. Absent
// bounds stay nil; Currency is set whenever at least one bound is.
type SalaryRange struct {
	Min      *int64
	Max      *int64
	Currency *string
}

// IsZero reports whether no bound was extracted.
func (r SalaryRange) IsZero() bool { return r.Min == nil && r.Max == nil }

const (
	currencyVND = "VND"
	currencyUSD = "USD"
)

var (
	negotiableRe = regexp.MustCompile(`(?i)thỏa thuận|thoả thuận|negotiable|cạnh tranh|competitive`)

	// 15 - 20 triệu | 18 Tr - 25 Tr VND | $1,500 - $2,500 | 10 đến 15 triệu
	salaryRangeRe = regexp.MustCompile(`(?i)\$?\s*(\d[\d.,]*)\s*(triệu|trieu|tr|vnđ|vnd|usd|k)?\s*(?:-|–|—|đến|tới|to)\s*\$?\s*(\d[\d.,]*)\s*(triệu|trieu|tr|vnđ|vnd|usd|k)?(?:$|[^\pL\pN])`)

	// tối đa 25 triệu | up to $2000 | lên đến 30 triệu
	salaryUpToRe = regexp.MustCompile(`(?i)(?:up to|tối đa|lên đến|lên tới)\s*\$?\s*(\d[\d.,]*)\s*(triệu|trieu|tr|vnđ|vnd|usd|k)?(?:$|[^\pL\pN])`)

	// từ 15 triệu | from $1200
	salaryFromRe = regexp.MustCompile(`(?i)(?:from|từ|starting at)\s*\$?\s*(\d[\d.,]*)\s*(triệu|trieu|tr|vnđ|vnd|usd|k)?(?:$|[^\pL\pN])`)

	// 20 triệu | $1500 | 25tr — unit required so bare numbers in prose
	// (headcounts, years) never read as salaries. \b is ASCII-only and
	// cannot close "vnđ", so the boundary is spelled out.
	salarySingleRe = regexp.MustCompile(`(?i)(\$)?\s*(\d[\d.,]*)\s*(triệu|trieu|tr|vnđ|vnd|usd|k)(?:$|[^\pL\pN])`)

	thousandsSepRe = regexp.MustCompile(`[.,](\d{3})`)
)

// ParseSalary extracts a salary range from free-form board text. It returns
// the zero SalaryRange when the text carries no figure or is explicitly
// negotiable.
func ParseSalary(text string) SalaryRange {
	text = CleanText(text)
	if text == "" || negotiableRe.MatchString(text) {
		return SalaryRange{}
	}

	// Every branch demands a unit or a dollar sign; unitless numbers in
	// prose ("3-5 năm kinh nghiệm") must never read as salaries.
	if m := salaryRangeRe.FindStringSubmatch(text); m != nil {
		dollar := strings.Contains(m[0], "$")
		// A unit on either side covers the whole range: "15 - 20 triệu".
		u1, u2 := m[2], m[4]
		if u1 == "" {
			u1 = u2
		} else if u2 == "" {
			u2 = u1
		}
		if u1 != "" || dollar {
			lo, cur := salaryValue(m[1], u1, dollar)
			hi, _ := salaryValue(m[3], u2, dollar)
			if lo > hi {
				lo, hi = hi, lo
			}
			return rangeOf(&lo, &hi, cur)
		}
	}

	if m := salaryUpToRe.FindStringSubmatch(text); m != nil {
		if dollar := strings.Contains(m[0], "$"); m[2] != "" || dollar {
			v, cur := salaryValue(m[1], m[2], dollar)
			return rangeOf(nil, &v, cur)
		}
	}

	if m := salaryFromRe.FindStringSubmatch(text); m != nil {
		if dollar := strings.Contains(m[0], "$"); m[2] != "" || dollar {
			v, cur := salaryValue(m[1], m[2], dollar)
			return rangeOf(&v, nil, cur)
		}
	}

	if m := salarySingleRe.FindStringSubmatch(text); m != nil {
		v, cur := salaryValue(m[2], m[3], m[1] == "$")
		// A bare figure is taken at face value, not inflated into a range.
		return rangeOf(&v, &v, cur)
	}

	return SalaryRange{}
}

// salaryValue converts one captured number plus its unit into an absolute
// amount and currency. An empty currency means the unit did not decide one.
func salaryValue(num, unit string, dollar bool) (int64, string) {
	v := parseNumber(num)
	switch strings.ToLower(unit) {
	case "triệu", "trieu", "tr":
		return int64(math.Round(v * 1_000_000)), currencyVND
	case "k":
		return int64(math.Round(v * 1_000)), currencyUSD
	case "usd":
		return int64(math.Round(v)), currencyUSD
	case "vnđ", "vnd":
		return int64(math.Round(v)), currencyVND
	}
	if dollar {
		return int64(math.Round(v)), currencyUSD
	}
	return int64(math.Round(v)), ""
}

// parseNumber handles both "10.000.000" (separator dots) and "10.5"
// (decimal point) spellings.
func parseNumber(s string) float64 {
	s = thousandsSepRe.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func rangeOf(lo, hi *int64, cur string) SalaryRange {
	return SalaryRange{Min: lo, Max: hi, Currency: &cur}
}

// materialDisagreement reports whether two parsed ranges differ by more than
// a factor of two on any shared bound, which usually means the description
// figure describes something other than the offered salary.
func materialDisagreement(a, b SalaryRange) bool {
	pairs := [][2]*int64{{a.Min, b.Min}, {a.Max, b.Max}}
	for _, p := range pairs {
		if p[0] == nil || p[1] == nil {
			continue
		}
		lo, hi := float64(*p[0]), float64(*p[1])
		if lo > hi {
			lo, hi = hi, lo
		}
		if lo > 0 && hi/lo > 2 {
			return true
		}
	}
	return false
}
