package source

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"strings"
)

// cleanText collapses whitespace runs and strips non-breaking spaces.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// nativeIDFromURL derives a platform-native job ID from a detail-page URL.
// Boards here encode the ID as trailing digits of the last path segment
// (".../ke-toan-truong-123456.html"). When no digits are present the full
// slug is hashed so the ID stays stable for the same URL.
func nativeIDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return hashString(rawURL)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := segments[len(segments)-1]
	last = strings.TrimSuffix(last, ".html")

	// Trailing digit run, e.g. "data-analyst-1654321" -> "1654321".
	i := len(last)
	for i > 0 && last[i-1] >= '0' && last[i-1] <= '9' {
		i--
	}
	if id := last[i:]; len(id) >= 4 {
		return id
	}
	if last != "" {
		return last
	}
	return hashString(rawURL)
}

func hashString(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:8])
}

// absoluteURL resolves href against base when href is relative.
func absoluteURL(base, href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(href, "/")
}
