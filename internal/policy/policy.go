// Package policy decides which visual styles to attempt for a brand and in
// what order. It is deterministic and side-effect free: the same brand
// context always yields the same plan.
package policy

import (
	"sort"
	"strings"

	"pipeline/internal/domain"
)

// Name-length cutoffs for typography-sensitive ordering rules.
const (
	shortNameLetters = 4
	longNameLetters  = 12
)

type styleEntry struct {
	spec domain.StyleSpec
	rank int
}

// defaultPlan is the fixed fallback ordering used when the brand context is
// malformed, and the baseline the ordering rules adjust from.
func defaultPlan() []styleEntry {
	return []styleEntry{
		{spec: textStyle(domain.StyleWordmark, domain.TextRuleFullName), rank: 10},
		{spec: symbolStyle(domain.StylePictorial), rank: 20},
		{spec: textStyle(domain.StyleMonogram, domain.TextRuleInitials), rank: 30},
		{spec: symbolStyle(domain.StyleAbstract), rank: 40},
		{spec: textStyle(domain.StyleEmblem, domain.TextRuleFullName), rank: 50},
		{spec: textStyle(domain.StyleMascot, domain.TextRuleFullName), rank: 60},
	}
}

func textStyle(id domain.StyleID, rule domain.TextRule) domain.StyleSpec {
	return domain.StyleSpec{
		ID:       id,
		Category: domain.StyleCategoryTextBearing,
		Budget:   domain.BudgetTextBearing,
		TextRule: rule,
	}
}

func symbolStyle(id domain.StyleID) domain.StyleSpec {
	return domain.StyleSpec{
		ID:       id,
		Category: domain.StyleCategorySymbolOnly,
		Budget:   domain.BudgetSymbolOnly,
		TextRule: domain.TextRuleNone,
	}
}

// Sector signal keywords matched against the aesthetic description and
// concept hints. Hospitality-like signals favor illustrative treatments;
// enterprise-like signals favor reduced geometric ones.
var (
	hospitalityKeywords = []string{
		"cafe", "coffee", "restaurant", "bakery", "bistro", "bar", "kitchen",
		"food", "hotel", "travel", "cozy", "handmade", "artisan",
	}
	enterpriseKeywords = []string{
		"enterprise", "consulting", "finance", "fintech", "legal", "analytics",
		"software", "cloud", "security", "b2b", "corporate", "saas",
	}
)

// Plan returns the ordered set of styles to attempt for the brand. A brand
// with an empty name falls back to the fixed default ordering.
func Plan(brand domain.BrandContext) []domain.StyleSpec {
	entries := defaultPlan()

	if brand.Normalized() != "" {
		letters := brand.Letters()
		if letters > 0 && letters <= shortNameLetters {
			// Very short names render well as type; push typography styles up.
			adjust(entries, domain.StyleWordmark, -15)
			adjust(entries, domain.StyleMonogram, -15)
		}
		if letters >= longNameLetters {
			// Long names make poor monograms and crowded emblems.
			adjust(entries, domain.StyleMonogram, +25)
			adjust(entries, domain.StyleEmblem, +10)
		}
		switch sector(brand) {
		case sectorHospitality:
			adjust(entries, domain.StyleMascot, -45)
			adjust(entries, domain.StyleEmblem, -35)
		case sectorEnterprise:
			adjust(entries, domain.StyleMascot, +35)
			adjust(entries, domain.StyleEmblem, +25)
			adjust(entries, domain.StyleAbstract, -15)
			adjust(entries, domain.StylePictorial, -5)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].rank < entries[j].rank })
	out := make([]domain.StyleSpec, len(entries))
	for i, e := range entries {
		out[i] = e.spec
	}
	return out
}

func adjust(entries []styleEntry, id domain.StyleID, delta int) {
	for i := range entries {
		if entries[i].spec.ID == id {
			entries[i].rank += delta
			return
		}
	}
}

type sectorKind int

const (
	sectorNeutral sectorKind = iota
	sectorHospitality
	sectorEnterprise
)

func sector(brand domain.BrandContext) sectorKind {
	haystack := strings.ToLower(brand.Aesthetic + " " + strings.Join(brand.ConceptHints, " "))
	hits := func(keywords []string) int {
		n := 0
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				n++
			}
		}
		return n
	}
	h, e := hits(hospitalityKeywords), hits(enterpriseKeywords)
	switch {
	case h > e:
		return sectorHospitality
	case e > h:
		return sectorEnterprise
	default:
		return sectorNeutral
	}
}
