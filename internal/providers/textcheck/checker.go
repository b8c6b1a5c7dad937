// Package textcheck verifies that the text rendered into a generated image
// matches the expected brand text.
package textcheck

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"pipeline/internal/domain"
)

// Full-name matches tolerate a single character of OCR noise.
const maxEditDistance = 1

var folder = cases.Fold()

// Match applies the text rule for a style to the recognized text. Full-name
// expectations must be within edit distance 1 of the expected string after
// case folding and whitespace normalization; initials expectations must
// appear as an ordered subsequence of the recognized letters.
func Match(recognized string, rule domain.TextRule, expected string) domain.TextCheckResult {
	res := domain.TextCheckResult{RecognizedText: strings.TrimSpace(recognized)}
	if expected == "" || rule == domain.TextRuleNone {
		res.Matched = true
		return res
	}
	switch rule {
	case domain.TextRuleFullName:
		got := normalize(recognized)
		want := normalize(expected)
		res.Matched = got != "" && levenshtein.ComputeDistance(got, want) <= maxEditDistance
	case domain.TextRuleInitials:
		res.Matched = containsSubsequence(letters(recognized), letters(expected))
	}
	return res
}

// normalize case-folds and collapses all whitespace runs to single spaces.
func normalize(s string) string {
	return folder.String(strings.Join(strings.Fields(s), " "))
}

// letters keeps only the letter runes, case-folded.
func letters(s string) []rune {
	var out []rune
	for _, r := range folder.String(s) {
		if unicode.IsLetter(r) {
			out = append(out, r)
		}
	}
	return out
}

func containsSubsequence(haystack, needle []rune) bool {
	if len(needle) == 0 {
		return false
	}
	i := 0
	for _, r := range haystack {
		if r == needle[i] {
			i++
			if i == len(needle) {
				return true
			}
		}
	}
	return false
}
