package domain

import "time"

// Outcome is the terminal state of a style's retry loop.
type Outcome string

const (
	// OutcomeAccepted means the retained attempt met the quality bar.
	OutcomeAccepted Outcome = "accepted"
	// OutcomeBestEffort means the budget ran out and the highest-scoring
	// attempt was retained instead.
	OutcomeBestEffort Outcome = "best_effort"
	// OutcomeFailedToGenerate means no attempt produced an image at all.
	OutcomeFailedToGenerate Outcome = "failed_to_generate"
)

// Attempt is one generate/evaluate cycle in a candidate's history.
type Attempt struct {
	Number       int
	Instructions InstructionPair
	ImageRef     string
	Evaluation   *EvaluationResult
	TextCheck    *TextCheckResult
	// GenerationErr holds the error message when the generation call itself
	// failed; such attempts carry no image and no evaluation.
	GenerationErr string
}

// Evaluated reports whether the attempt produced a scored image.
func (a Attempt) Evaluated() bool {
	return a.GenerationErr == "" && a.Evaluation != nil
}

// Candidate is the unit of work and the unit of output: one per requested
// style, owned exclusively by that style's retry loop.
type Candidate struct {
	ID    string
	Style StyleSpec

	// Attempts is the full cycle history, oldest first.
	Attempts []Attempt

	// The retained attempt. When Accepted, these are exactly the image and
	// instructions that produced the passing evaluation; otherwise the
	// highest-scoring attempt across the history.
	Instructions InstructionPair
	ImageRef     string
	Evaluation   *EvaluationResult
	TextCheck    *TextCheckResult

	AttemptCount int
	Accepted     bool
	Outcome      Outcome
}

// BestAttempt selects the highest-scoring evaluated attempt, preferring the
// earliest on ties so repeated selection over the same history is stable.
func (c *Candidate) BestAttempt() *Attempt {
	var best *Attempt
	for i := range c.Attempts {
		a := &c.Attempts[i]
		if !a.Evaluated() {
			continue
		}
		if best == nil || a.Evaluation.Score > best.Evaluation.Score {
			best = a
		}
	}
	return best
}

// ConceptSet is the final ordered collection of one candidate per requested
// style, in policy order.
type ConceptSet struct {
	BatchID    string
	Brand      string
	StartedAt  time.Time
	FinishedAt time.Time
	Candidates []Candidate
}

// AcceptedCount tallies candidates that met the quality bar.
func (cs *ConceptSet) AcceptedCount() int {
	n := 0
	for i := range cs.Candidates {
		if cs.Candidates[i].Accepted {
			n++
		}
	}
	return n
}
