package instruction

import (
	"context"

	"pipeline/internal/domain"
)

// RewriteRequest carries everything the language model needs to rewrite an
// instruction pair from scratch.
type RewriteRequest struct {
	Current      domain.InstructionPair
	Flags        domain.FlagSet
	Notes        string
	Style        domain.StyleSpec
	Brand        domain.BrandContext
	ExpectedText string
}

// Rewriter rewrites an instruction pair via a language-model call. Used only
// on the rewrite tier.
type Rewriter interface {
	Rewrite(ctx context.Context, req RewriteRequest) (domain.InstructionPair, error)
}

// Refiner turns the previous attempt's failure flags into the next attempt's
// instructions. Early attempts use the deterministic flag→fix table; the
// final attempt escalates to a full language-model rewrite. The two tiers
// are separate strategies so either can be swapped or tested on its own.
type Refiner struct {
	rewriter Rewriter
}

// NewRefiner builds a Refiner. rewriter may be nil, in which case the
// rewrite tier silently degrades to the deterministic tier.
func NewRefiner(rewriter Rewriter) *Refiner {
	return &Refiner{rewriter: rewriter}
}

// Refine derives the instructions for attempt nextAttempt from the previous
// pair and the flags and notes of the attempt that just failed. Only the
// most recent attempt's flags feed in; older attempts contribute nothing
// beyond what is already baked into prev.
//
// The rewrite tier runs only when nextAttempt is the final one of a budget
// that allowed at least one deterministic refinement first; two-attempt
// budgets never reach it. A failed rewrite falls back to the deterministic
// output rather than failing the candidate.
func (r *Refiner) Refine(ctx context.Context, prev domain.InstructionPair, flags domain.FlagSet, notes string, nextAttempt int, spec domain.StyleSpec, brand domain.BrandContext) domain.InstructionPair {
	expected := spec.ExpectedText(brand)
	deterministic := applyFixes(prev, flags, expected)

	if r.rewriter == nil || nextAttempt < 3 || nextAttempt != spec.Budget {
		return deterministic
	}

	rewritten, err := r.rewriter.Rewrite(ctx, RewriteRequest{
		Current:      prev,
		Flags:        flags,
		Notes:        notes,
		Style:        spec,
		Brand:        brand,
		ExpectedText: expected,
	})
	if err != nil || rewritten.Positive == "" {
		return deterministic
	}
	if flags.Has(domain.FlagWrongTextSpelled) && expected != "" {
		rewritten = rewritten.Append("the text reads "+spellOut(expected), "")
	}
	return rewritten
}
