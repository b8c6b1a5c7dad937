package instruction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pipeline/internal/domain"
)

type fakeRewriter struct {
	pair  domain.InstructionPair
	err   error
	calls int
	last  RewriteRequest
}

func (f *fakeRewriter) Rewrite(ctx context.Context, req RewriteRequest) (domain.InstructionPair, error) {
	f.calls++
	f.last = req
	return f.pair, f.err
}

func basePair() domain.InstructionPair {
	return domain.InstructionPair{Positive: "vector logo", Negative: "photograph"}
}

func TestRefineDeterministicAppendsFragments(t *testing.T) {
	r := NewRefiner(nil)
	flags := domain.NewFlagSet(domain.FlagVisualClutter, domain.FlagLowContrast)
	got := r.Refine(context.Background(), basePair(), flags, "", 2, wordmarkSpec(), domain.BrandContext{Name: "Acme"})

	if !strings.Contains(got.Positive, "uncluttered composition") {
		t.Fatalf("positive missing clutter fix: %s", got.Positive)
	}
	if !strings.Contains(got.Positive, "strong contrast") {
		t.Fatalf("positive missing contrast fix: %s", got.Positive)
	}
	if !strings.Contains(got.Negative, "overlapping elements") {
		t.Fatalf("negative missing clutter fix: %s", got.Negative)
	}
	if !strings.HasPrefix(got.Positive, "vector logo") {
		t.Fatalf("previous positive should be preserved: %s", got.Positive)
	}
}

func TestRefineSpellsOutWrongText(t *testing.T) {
	r := NewRefiner(nil)
	flags := domain.NewFlagSet(domain.FlagWrongTextSpelled)
	got := r.Refine(context.Background(), basePair(), flags, "", 2, wordmarkSpec(), domain.BrandContext{Name: "Acme"})
	if !strings.Contains(got.Positive, "A-c-m-e") {
		t.Fatalf("positive missing spelled-out directive: %s", got.Positive)
	}
}

func TestRefineRewriteTierOnFinalAttempt(t *testing.T) {
	rw := &fakeRewriter{pair: domain.InstructionPair{Positive: "fresh take", Negative: "stale take"}}
	r := NewRefiner(rw)
	spec := wordmarkSpec() // budget 3

	got := r.Refine(context.Background(), basePair(), domain.NewFlagSet(domain.FlagVisualClutter), "too busy", 3, spec, domain.BrandContext{Name: "Acme"})
	if rw.calls != 1 {
		t.Fatalf("rewriter calls = %d, want 1", rw.calls)
	}
	if got.Positive != "fresh take" {
		t.Fatalf("positive = %q, want rewrite output", got.Positive)
	}
	if rw.last.Notes != "too busy" {
		t.Fatalf("rewrite request notes = %q", rw.last.Notes)
	}
}

func TestRefineDeterministicBeforeFinalAttempt(t *testing.T) {
	rw := &fakeRewriter{pair: domain.InstructionPair{Positive: "fresh take"}}
	r := NewRefiner(rw)

	got := r.Refine(context.Background(), basePair(), domain.NewFlagSet(domain.FlagVisualClutter), "", 2, wordmarkSpec(), domain.BrandContext{Name: "Acme"})
	if rw.calls != 0 {
		t.Fatalf("rewriter called on a non-final attempt")
	}
	if !strings.Contains(got.Positive, "uncluttered") {
		t.Fatalf("expected deterministic output: %s", got.Positive)
	}
}

func TestRefineTwoAttemptBudgetStaysDeterministic(t *testing.T) {
	rw := &fakeRewriter{pair: domain.InstructionPair{Positive: "fresh take"}}
	r := NewRefiner(rw)

	got := r.Refine(context.Background(), basePair(), domain.NewFlagSet(domain.FlagVisualClutter), "", 2, pictorialSpec(), domain.BrandContext{Name: "Acme"})
	if rw.calls != 0 {
		t.Fatalf("rewriter called for a two-attempt budget")
	}
	if !strings.Contains(got.Positive, "uncluttered") {
		t.Fatalf("expected deterministic output: %s", got.Positive)
	}
}

func TestRefineFallsBackWhenRewriteFails(t *testing.T) {
	rw := &fakeRewriter{err: errors.New("model unavailable")}
	r := NewRefiner(rw)

	got := r.Refine(context.Background(), basePair(), domain.NewFlagSet(domain.FlagVisualClutter), "", 3, wordmarkSpec(), domain.BrandContext{Name: "Acme"})
	if rw.calls != 1 {
		t.Fatalf("rewriter calls = %d, want 1", rw.calls)
	}
	if !strings.Contains(got.Positive, "uncluttered") {
		t.Fatalf("expected deterministic fallback: %s", got.Positive)
	}
}

func TestRefineRewriteKeepsSpelledOutText(t *testing.T) {
	rw := &fakeRewriter{pair: domain.InstructionPair{Positive: "fresh take", Negative: "stale"}}
	r := NewRefiner(rw)
	flags := domain.NewFlagSet(domain.FlagWrongTextSpelled)

	got := r.Refine(context.Background(), basePair(), flags, "", 3, wordmarkSpec(), domain.BrandContext{Name: "Acme"})
	if !strings.Contains(got.Positive, "A-c-m-e") {
		t.Fatalf("rewrite output missing spelled-out directive: %s", got.Positive)
	}
}

func TestSpellOut(t *testing.T) {
	if got := spellOut("Acme"); got != `"Acme" spelled A-c-m-e` {
		t.Fatalf("spellOut = %q", got)
	}
	if got := spellOut("Blue Harbor"); got != `"Blue Harbor" spelled B-l-u-e H-a-r-b-o-r` {
		t.Fatalf("spellOut = %q", got)
	}
}
