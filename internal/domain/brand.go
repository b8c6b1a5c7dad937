package domain

import (
	"strings"
	"unicode"
)

// BrandContext is the immutable brief the pipeline works from. It is produced
// upstream (intake, onboarding) and consumed read-only by every component.
type BrandContext struct {
	Name         string
	Aesthetic    string
	Palette      []string
	Tagline      string
	ConceptHints []string
}

// Normalized returns the brand name with collapsed whitespace.
func (b BrandContext) Normalized() string {
	return strings.Join(strings.Fields(b.Name), " ")
}

// Letters counts the letter characters of the brand name, ignoring spaces and
// punctuation. Style ordering rules key off this rather than raw length.
func (b BrandContext) Letters() int {
	n := 0
	for _, r := range b.Name {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// Initials derives a 1-3 letter monogram from the brand name: the first
// letter of up to three words, upper-cased.
func (b BrandContext) Initials() string {
	var initials []rune
	for _, w := range strings.Fields(b.Name) {
		for _, r := range w {
			if unicode.IsLetter(r) {
				initials = append(initials, unicode.ToUpper(r))
				break
			}
		}
		if len(initials) == 3 {
			break
		}
	}
	return string(initials)
}
