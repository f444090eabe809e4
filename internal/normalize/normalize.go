// Package normalize provides utilities for normalizing catalog text values.
package normalize

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any non-alphanumeric character.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
	// Matches runs of whitespace.
	whitespace = regexp.MustCompile(`\s+`)
)

// Slug converts a display value to a URL-safe key.
// "Sci-Fi & Fantasy" -> "sci-fi-fantasy".
// "Côte d'Ivoire" -> "cote-d-ivoire".
// "TV Action & Adventure" -> "tv-action-adventure".
func Slug(s string) string {
	// Decompose accented characters, then drop the combining marks.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// Text trims a field and collapses internal whitespace.
func Text(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return whitespace.ReplaceAllString(s, " ")
}

// List splits a comma-separated field into trimmed, non-empty values.
// Order is preserved and duplicates are kept; "United States, , India"
// becomes ["United States", "India"].
func List(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = Text(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Rating canonicalises a content rating ("tv-ma" -> "TV-MA").
func Rating(s string) string {
	return strings.ToUpper(Text(s))
}

// Values trims, drops blanks, de-duplicates and sorts a set of filter values
// after applying fn to each.
func Values(in []string, fn func(string) string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if fn != nil {
			v = fn(v)
		}
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
