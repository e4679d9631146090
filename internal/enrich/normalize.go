package enrich

import (
	"regexp"
	"strings"
)

// Boilerplate suffixes boards append to titles and company names. Matched
// case-insensitively against the end of the field.
var boilerplateSuffixRe = regexp.MustCompile(`(?i)\s*(?:-\s*)?(?:apply now|ứng tuyển ngay|tuyển gấp|hot job|\[hot\]|\(hot\)|urgent|gấp)\s*$`)

var zeroWidthReplacer = strings.NewReplacer(
	" ", " ", // NBSP
	"​", "", // zero-width space
	"‌", "",
	"‍", "",
	"\ufeff", "",
)

// CleanText strips non-breaking and zero-width characters and collapses
// whitespace runs into single spaces.
func CleanText(s string) string {
	s = zeroWidthReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeField cleans a raw textual field and strips board boilerplate.
// Empty or whitespace-only input yields nil, never a pointer to "".
// The returned value keeps its display casing; callers lower-case on their
// own when matching.
func NormalizeField(s string) *string {
	s = CleanText(s)
	for {
		stripped := strings.TrimSpace(boilerplateSuffixRe.ReplaceAllString(s, ""))
		if stripped == s {
			break
		}
		s = stripped
	}
	if s == "" {
		return nil
	}
	return &s
}
