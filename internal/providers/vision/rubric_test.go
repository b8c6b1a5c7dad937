package vision

import (
	"strings"
	"testing"

	"pipeline/internal/domain"
)

func textSpec() domain.StyleSpec {
	return domain.StyleSpec{
		ID:       domain.StyleWordmark,
		Category: domain.StyleCategoryTextBearing,
		Budget:   domain.BudgetTextBearing,
		TextRule: domain.TextRuleFullName,
	}
}

func symbolSpec() domain.StyleSpec {
	return domain.StyleSpec{
		ID:       domain.StyleAbstract,
		Category: domain.StyleCategorySymbolOnly,
		Budget:   domain.BudgetSymbolOnly,
		TextRule: domain.TextRuleNone,
	}
}

func TestBuildPromptNamesRubricDimensions(t *testing.T) {
	p := buildPrompt(textSpec())
	for _, want := range []string{"typography", "composition", "style_compliance", "production", "visual_clutter"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q: %s", want, p)
		}
	}

	sp := buildPrompt(symbolSpec())
	for _, want := range []string{"distinctiveness", "simplicity", "absence of text"} {
		if !strings.Contains(sp, want) {
			t.Fatalf("symbol prompt missing %q: %s", want, sp)
		}
	}
}

func TestScorePayloadSumsDimensions(t *testing.T) {
	res := scorePayload(textSpec(), evaluationPayload{
		DimensionScores: map[string]int{
			"typography": 20, "composition": 15, "style_compliance": 20, "production": 15,
		},
		Flags: []string{"low_contrast"},
		Notes: " tighten kerning ",
	})
	if res.Score != 70 {
		t.Fatalf("score = %d, want 70", res.Score)
	}
	if !res.Flags.Has(domain.FlagLowContrast) {
		t.Fatalf("flags = %v, want low_contrast", res.Flags.Strings())
	}
	if res.Notes != "tighten kerning" {
		t.Fatalf("notes = %q", res.Notes)
	}
}

func TestScorePayloadClampsDimensions(t *testing.T) {
	res := scorePayload(textSpec(), evaluationPayload{
		DimensionScores: map[string]int{
			"typography": 90, "composition": -10, "style_compliance": 25, "production": 25,
		},
	})
	if res.Score != 75 {
		t.Fatalf("score = %d, want 75 (25+0+25+25)", res.Score)
	}
}

func TestScorePayloadDropsUnknownFlagNames(t *testing.T) {
	res := scorePayload(symbolSpec(), evaluationPayload{
		DimensionScores: map[string]int{"distinctiveness": 10},
		Flags:           []string{"visual_clutter", "totally_made_up", " low_contrast "},
	})
	if !res.Flags.Has(domain.FlagVisualClutter) || !res.Flags.Has(domain.FlagLowContrast) {
		t.Fatalf("flags = %v", res.Flags.Strings())
	}
	if len(res.Flags) != 2 {
		t.Fatalf("flags = %v, want exactly 2", res.Flags.Strings())
	}
}

func TestScorePayloadMissingDimensionsScoreZero(t *testing.T) {
	res := scorePayload(textSpec(), evaluationPayload{})
	if res.Score != 0 {
		t.Fatalf("score = %d, want 0", res.Score)
	}
}
