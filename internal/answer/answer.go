// Package answer decides whether a typed guess names a country.
//
// Two comparisons are tried: a plain one (trimmed, lower-cased) and an
// ASCII-folded one where the input is decomposed (NFD) and every code point
// outside 0-127 is dropped, so accented names match unaccented guesses.
package answer

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// closeDistance is the largest edit distance still reported as a near miss.
const closeDistance = 2

// minCloseLength keeps short names like Peru or Chad from being close to
// almost any four-letter guess.
const minCloseLength = 5

// Normalize lower-cases s after trimming surrounding whitespace.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Fold decomposes s, strips every non-ASCII code point (diacritics and
// non-Latin letters alike, nothing is transliterated) and lower-cases the
// rest. Apostrophes are dropped too, since typographic ones never survive
// the fold and the ASCII one would otherwise never match them.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if r >= utf8.RuneSelf || r == '\'' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(strings.ToLower(b.String())), " ")
}

// IsCorrect reports whether input names canonical. A canonical name that
// folds to nothing (non-Latin script) only matches on the plain comparison.
func IsCorrect(input, canonical string) bool {
	if Normalize(input) == Normalize(canonical) {
		return true
	}
	want := Fold(canonical)
	return want != "" && Fold(input) == want
}

// Close reports whether a wrong input is within a couple of typos of
// canonical. It is a hint only and never changes the grading.
func Close(input, canonical string) bool {
	in, want := Fold(input), Fold(canonical)
	if in == "" || len(want) < minCloseLength {
		return false
	}
	d := levenshtein.ComputeDistance(in, want)
	return d > 0 && d <= closeDistance
}
