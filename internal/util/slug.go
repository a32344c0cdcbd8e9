// Package util provides common utility functions.
package util

import (
	"regexp"
	"slices"
	"strings"
)

var (
	wordSeparatorRe   = regexp.MustCompile(`[\s_/]+`)
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9-]`)
	multipleDashRe    = regexp.MustCompile(`-+`)
)

// NormalizeTag converts a user-entered session tag to its canonical form.
//
//	"Washed Process" → "washed-process"
//	"natural_anaerobic" → "natural-anaerobic"
//	"  Competition!! " → "competition"
func NormalizeTag(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonAlphanumericRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeTags normalizes each tag, drops empties and duplicates, and sorts
// the result. Tags form a set, so order carries no meaning.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if n := NormalizeTag(t); n != "" {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
