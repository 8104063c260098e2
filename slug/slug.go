// Package slug converts author display names into the path segment used by
// the site's /author/{slug}/ pages.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds diacritics, collapses every run of whitespace and periods
// into a single hyphen, drops apostrophes and trims trailing hyphens.
//
// It never fails. A name made only of separators or apostrophes yields "".
func Normalize(name string) string {
	folded := foldMarks(name)

	var b strings.Builder
	b.Grow(len(folded))

	inRun := false
	for _, r := range folded {
		switch {
		case r == '.' || unicode.IsSpace(r):
			if !inRun {
				b.WriteByte('-')
				inRun = true
			}
		case isApostrophe(r):
			// Removed after separators collapse, so it still splits a run.
			inRun = false
		default:
			b.WriteRune(r)
			inRun = false
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// foldMarks decomposes the name and drops nonspacing marks, so "é" becomes "e".
func foldMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '\u2019'
}
