package shared

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// FormatRating renders a 0-10 vote average with one decimal, or "N/A".
func FormatRating(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}

// ReleaseYear returns the year portion of a YYYY-MM-DD date, or "N/A".
func ReleaseYear(date *string) string {
	if date == nil || len(*date) < 4 {
		return "N/A"
	}
	return (*date)[:4]
}

// Pluralize returns "1 movie" / "3 movies" style counts.
func Pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// SharePath is the relative share path the backend returns for a list id.
func SharePath(id string) string {
	return "/shared/" + url.PathEscape(id)
}

// ShareLink resolves a list's share path against base.
//
// shareURL is used when the backend returned one, otherwise the path is derived from id.
// Absolute shareURLs are returned unchanged.
func ShareLink(base, shareURL, id string) (string, error) {
	if shareURL == "" {
		if strings.TrimSpace(id) == "" {
			return "", fmt.Errorf("%w: list has no id", ErrInvalidArgument)
		}
		shareURL = SharePath(id)
	}

	ref, err := url.Parse(shareURL)
	if err != nil {
		return "", fmt.Errorf("%w: share url %q", ErrInvalidArgument, shareURL)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}

	b, err := url.Parse(strings.TrimSpace(base))
	if err != nil || !b.IsAbs() {
		return "", fmt.Errorf("%w: share base url %q", ErrInvalidConfig, base)
	}
	return b.ResolveReference(ref).String(), nil
}
