package domain

// StyleCategory determines whether a text-fidelity check applies to a style.
type StyleCategory string

const (
	StyleCategoryTextBearing StyleCategory = "text_bearing"
	StyleCategorySymbolOnly  StyleCategory = "symbol_only"
)

// TextRule describes what text, if any, a generated concept must carry.
type TextRule string

const (
	TextRuleNone     TextRule = "none"
	TextRuleFullName TextRule = "full_name"
	TextRuleInitials TextRule = "initials"
)

// StyleID names a visual treatment for a generated concept.
type StyleID string

const (
	StyleWordmark  StyleID = "wordmark"
	StyleMonogram  StyleID = "monogram"
	StyleMascot    StyleID = "mascot"
	StylePictorial StyleID = "pictorial"
	StyleAbstract  StyleID = "abstract"
	StyleEmblem    StyleID = "emblem"
)

// Attempt budgets per category. Text-bearing styles get one extra cycle
// because the text gate rejects more often than the visual rubric alone.
const (
	BudgetTextBearing = 3
	BudgetSymbolOnly  = 2
)

// StyleSpec is the per-style work order handed to the orchestrator.
type StyleSpec struct {
	ID       StyleID
	Category StyleCategory
	Budget   int
	TextRule TextRule
}

// ExpectedText resolves the text a candidate image must carry for this style,
// or "" when no text is expected.
func (s StyleSpec) ExpectedText(brand BrandContext) string {
	switch s.TextRule {
	case TextRuleFullName:
		return brand.Normalized()
	case TextRuleInitials:
		return brand.Initials()
	default:
		return ""
	}
}

// NeedsTextCheck reports whether the text-fidelity gate applies.
func (s StyleSpec) NeedsTextCheck(brand BrandContext) bool {
	return s.Category == StyleCategoryTextBearing && s.ExpectedText(brand) != ""
}
