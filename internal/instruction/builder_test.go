package instruction

import (
	"strings"
	"testing"

	"pipeline/internal/domain"
)

func wordmarkSpec() domain.StyleSpec {
	return domain.StyleSpec{
		ID:       domain.StyleWordmark,
		Category: domain.StyleCategoryTextBearing,
		Budget:   domain.BudgetTextBearing,
		TextRule: domain.TextRuleFullName,
	}
}

func pictorialSpec() domain.StyleSpec {
	return domain.StyleSpec{
		ID:       domain.StylePictorial,
		Category: domain.StyleCategorySymbolOnly,
		Budget:   domain.BudgetSymbolOnly,
		TextRule: domain.TextRuleNone,
	}
}

func TestBuildTextBearingNamesExpectedText(t *testing.T) {
	brand := domain.BrandContext{Name: "Blue Harbor", Aesthetic: "calm nautical", Palette: []string{"navy", "sand"}}
	pair := Build(wordmarkSpec(), brand)

	for _, want := range []string{"Blue Harbor", "legible centered", "calm nautical", "navy and sand", "plain white background"} {
		if !strings.Contains(pair.Positive, want) {
			t.Fatalf("positive missing %q: %s", want, pair.Positive)
		}
	}
	if !strings.Contains(pair.Negative, "photorealistic") {
		t.Fatalf("negative missing standing boilerplate: %s", pair.Negative)
	}
}

func TestBuildSymbolOnlyForbidsText(t *testing.T) {
	pair := Build(pictorialSpec(), domain.BrandContext{Name: "Blue Harbor"})
	if !strings.Contains(pair.Positive, "no text") {
		t.Fatalf("positive should forbid text: %s", pair.Positive)
	}
	if !strings.Contains(pair.Negative, "typography") {
		t.Fatalf("negative should forbid typography: %s", pair.Negative)
	}
}

func TestBuildMonogramLeadsWithInitials(t *testing.T) {
	spec := domain.StyleSpec{
		ID:       domain.StyleMonogram,
		Category: domain.StyleCategoryTextBearing,
		Budget:   domain.BudgetTextBearing,
		TextRule: domain.TextRuleInitials,
	}
	pair := Build(spec, domain.BrandContext{Name: "Blue Harbor"})
	if !strings.Contains(pair.Positive, `"BH"`) {
		t.Fatalf("monogram positive missing initials: %s", pair.Positive)
	}
}

func TestBuildTitleCasesLowercaseNames(t *testing.T) {
	pair := Build(wordmarkSpec(), domain.BrandContext{Name: "blue harbor"})
	if !strings.Contains(pair.Positive, "Blue Harbor") {
		t.Fatalf("expected title-cased name in: %s", pair.Positive)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	brand := domain.BrandContext{Name: "Acme", Palette: []string{"red"}}
	first := Build(wordmarkSpec(), brand)
	for i := 0; i < 5; i++ {
		if got := Build(wordmarkSpec(), brand); got != first {
			t.Fatalf("run %d: %+v differs from %+v", i, got, first)
		}
	}
}
