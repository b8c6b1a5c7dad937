package orchestrator

import (
	"context"

	"github.com/google/uuid"

	"pipeline/internal/domain"
	"pipeline/internal/infra"
	"pipeline/internal/instruction"
	"pipeline/internal/providers/genimage"
	"pipeline/internal/providers/textcheck"
)

// runStyle is the per-style state machine:
//
//	GENERATE -> EVALUATE -> [TEXT_CHECK] -> DECIDE -> (accept | REFINE -> GENERATE | exhaust)
//
// Attempts are strictly sequential because each one's instructions derive
// from the previous evaluation. The candidate is owned by this call alone.
func (o *Orchestrator) runStyle(ctx context.Context, batchID string, brand domain.BrandContext, spec domain.StyleSpec) domain.Candidate {
	cand := domain.Candidate{ID: uuid.NewString(), Style: spec}
	pair := instruction.Build(spec, brand)
	expected := spec.ExpectedText(brand)
	log := o.logger.With().Str("batch_id", batchID).Str("style", string(spec.ID)).Logger()

	for attempt := 1; attempt <= spec.Budget; attempt++ {
		if ctx.Err() != nil {
			break
		}
		cand.AttemptCount = attempt
		att := domain.Attempt{Number: attempt, Instructions: pair}

		// GENERATE
		img, err := o.generate(ctx, genimage.Request{
			Instructions: pair,
			StyleID:      spec.ID,
			BatchID:      batchID,
		})
		if err != nil {
			att.GenerationErr = err.Error()
			cand.Attempts = append(cand.Attempts, att)
			log.Warn().Int("attempt", attempt).Err(err).Msg("generation failed")
			// Attempt consumed; retry with the same instructions.
			continue
		}

		att.ImageRef = img.Ref
		if o.opts.Sink != nil {
			if ref, err := o.opts.Sink.Save(ctx, batchID, spec.ID, attempt, img); err == nil {
				att.ImageRef = ref
			} else {
				log.Warn().Int("attempt", attempt).Err(err).Msg("image sink failed, keeping provider ref")
			}
		}

		// EVALUATE
		eval := o.evaluate(ctx, img, spec, log, attempt)

		// TEXT_CHECK
		var tc *domain.TextCheckResult
		if spec.NeedsTextCheck(brand) {
			res := o.checkText(ctx, img, spec, expected, log, attempt)
			tc = &res
			if !res.Matched {
				// The text gate is hard: the flag lands even when the visual
				// score passed.
				eval.Flags = eval.Flags.Add(domain.FlagWrongTextSpelled)
			}
		}

		att.Evaluation = eval
		att.TextCheck = tc
		cand.Attempts = append(cand.Attempts, att)

		// DECIDE
		if eval.Score >= AcceptanceThreshold && (tc == nil || tc.Matched) {
			cand.Accepted = true
			cand.Outcome = domain.OutcomeAccepted
			retain(&cand, &att)
			log.Info().Int("attempt", attempt).Int("score", eval.Score).Msg("candidate accepted")
			return cand
		}
		log.Info().
			Int("attempt", attempt).
			Int("score", eval.Score).
			Strs("flags", eval.Flags.Strings()).
			Msg("candidate rejected")

		// REFINE
		if attempt < spec.Budget && ctx.Err() == nil {
			pair = o.opts.Refiner.Refine(ctx, pair, eval.Flags, eval.Notes, attempt+1, spec, brand)
		}
	}

	// Budget exhausted or cancelled: keep the best evaluated attempt, if any.
	if best := cand.BestAttempt(); best != nil {
		cand.Outcome = domain.OutcomeBestEffort
		retain(&cand, best)
		log.Info().Int("attempts", cand.AttemptCount).Int("score", best.Evaluation.Score).Msg("budget exhausted, keeping best attempt")
	} else {
		cand.Outcome = domain.OutcomeFailedToGenerate
		log.Warn().Int("attempts", cand.AttemptCount).Msg("no attempt produced an image")
	}
	return cand
}

func retain(cand *domain.Candidate, att *domain.Attempt) {
	cand.Instructions = att.Instructions
	cand.ImageRef = att.ImageRef
	cand.Evaluation = att.Evaluation
	cand.TextCheck = att.TextCheck
}

func (o *Orchestrator) generate(ctx context.Context, req genimage.Request) (*genimage.Image, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.opts.GenerateTimeout)
	defer cancel()
	return o.opts.Generator.Generate(callCtx, req)
}

// evaluate downgrades adapter failures to a failing score with the unknown
// flag so the loop keeps advancing toward refinement or exhaustion.
func (o *Orchestrator) evaluate(ctx context.Context, img *genimage.Image, spec domain.StyleSpec, log infra.Logger, attempt int) *domain.EvaluationResult {
	callCtx, cancel := context.WithTimeout(ctx, o.opts.EvaluateTimeout)
	defer cancel()
	eval, err := o.opts.Evaluator.Evaluate(callCtx, img, spec)
	if err != nil {
		log.Warn().Int("attempt", attempt).Err(err).Msg("evaluation unavailable, scoring zero")
		return &domain.EvaluationResult{
			Score: 0,
			Flags: domain.NewFlagSet(domain.FlagUnknown),
			Notes: "evaluation unavailable",
		}
	}
	if eval.Flags == nil {
		eval.Flags = domain.NewFlagSet()
	}
	return eval
}

// checkText treats a recognition failure like unreadable text: the gate
// fails and the attempt keeps moving instead of stalling the loop.
func (o *Orchestrator) checkText(ctx context.Context, img *genimage.Image, spec domain.StyleSpec, expected string, log infra.Logger, attempt int) domain.TextCheckResult {
	callCtx, cancel := context.WithTimeout(ctx, o.opts.ReadTimeout)
	defer cancel()
	recognized, err := o.opts.Reader.Read(callCtx, img)
	if err != nil {
		log.Warn().Int("attempt", attempt).Err(err).Msg("text recognition unavailable, failing text gate")
		return domain.TextCheckResult{Matched: false}
	}
	return textcheck.Match(recognized, spec.TextRule, expected)
}
