package policy

import (
	"reflect"
	"testing"

	"pipeline/internal/domain"
)

func ids(specs []domain.StyleSpec) []domain.StyleID {
	out := make([]domain.StyleID, len(specs))
	for i, s := range specs {
		out[i] = s.ID
	}
	return out
}

func TestPlanFallsBackToDefaultOrdering(t *testing.T) {
	got := ids(Plan(domain.BrandContext{Name: "   "}))
	want := []domain.StyleID{
		domain.StyleWordmark, domain.StylePictorial, domain.StyleMonogram,
		domain.StyleAbstract, domain.StyleEmblem, domain.StyleMascot,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("fallback order = %v, want %v", got, want)
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	brand := domain.BrandContext{Name: "Blue Harbor", Aesthetic: "cozy coastal cafe"}
	first := ids(Plan(brand))
	for i := 0; i < 10; i++ {
		if got := ids(Plan(brand)); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: order %v differs from %v", i, got, first)
		}
	}
}

func TestPlanShortNamePromotesTypography(t *testing.T) {
	got := ids(Plan(domain.BrandContext{Name: "Oak"}))
	if got[0] != domain.StyleWordmark || got[1] != domain.StyleMonogram {
		t.Fatalf("short-name order = %v, want wordmark then monogram first", got)
	}
}

func TestPlanLongNameDemotesMonogram(t *testing.T) {
	got := ids(Plan(domain.BrandContext{Name: "Extraordinary Ventures"}))
	pos := map[domain.StyleID]int{}
	for i, id := range got {
		pos[id] = i
	}
	if pos[domain.StyleMonogram] < pos[domain.StyleAbstract] {
		t.Fatalf("long-name order = %v, monogram should trail abstract", got)
	}
}

func TestPlanHospitalityBoostsIllustrative(t *testing.T) {
	got := ids(Plan(domain.BrandContext{
		Name:      "Harbor House",
		Aesthetic: "warm artisan bakery and coffee shop",
	}))
	pos := map[domain.StyleID]int{}
	for i, id := range got {
		pos[id] = i
	}
	if pos[domain.StyleMascot] > pos[domain.StyleAbstract] {
		t.Fatalf("hospitality order = %v, mascot should lead abstract", got)
	}
	if pos[domain.StyleEmblem] > pos[domain.StylePictorial] {
		t.Fatalf("hospitality order = %v, emblem should lead pictorial", got)
	}
}

func TestPlanEnterpriseDemotesIllustrative(t *testing.T) {
	got := ids(Plan(domain.BrandContext{
		Name:      "Meridian",
		Aesthetic: "modern b2b analytics software",
	}))
	if last := got[len(got)-1]; last != domain.StyleMascot {
		t.Fatalf("enterprise order = %v, mascot should come last", got)
	}
}

func TestPlanBudgetsFollowCategory(t *testing.T) {
	for _, s := range Plan(domain.BrandContext{Name: "Acme"}) {
		switch s.Category {
		case domain.StyleCategoryTextBearing:
			if s.Budget != domain.BudgetTextBearing {
				t.Fatalf("style %s budget = %d, want %d", s.ID, s.Budget, domain.BudgetTextBearing)
			}
			if s.TextRule == domain.TextRuleNone {
				t.Fatalf("text-bearing style %s has no text rule", s.ID)
			}
		case domain.StyleCategorySymbolOnly:
			if s.Budget != domain.BudgetSymbolOnly {
				t.Fatalf("style %s budget = %d, want %d", s.ID, s.Budget, domain.BudgetSymbolOnly)
			}
			if s.TextRule != domain.TextRuleNone {
				t.Fatalf("symbol-only style %s has text rule %s", s.ID, s.TextRule)
			}
		}
	}
}
