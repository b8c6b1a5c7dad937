// Package orchestrator drives the generate→evaluate→verify→refine loop for
// every requested style and joins the results into a concept set.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"pipeline/internal/domain"
	"pipeline/internal/infra"
	"pipeline/internal/instruction"
	"pipeline/internal/policy"
	"pipeline/internal/providers/genimage"
	"pipeline/internal/providers/textcheck"
	"pipeline/internal/providers/vision"
)

// AcceptanceThreshold is the minimum evaluation score for a candidate to be
// accepted before its budget runs out. A single policy constant across all
// style categories.
const AcceptanceThreshold = 65

// DefaultConcurrency bounds how many style loops run at once, independent of
// how many styles the policy requests.
const DefaultConcurrency = 2

const (
	defaultGenerateTimeout = 90 * time.Second
	defaultEvaluateTimeout = 30 * time.Second
	defaultReadTimeout     = 30 * time.Second
)

// ImageSink persists generated image bytes and returns the durable reference
// recorded on the candidate. Optional; without one, candidates keep the
// provider reference.
type ImageSink interface {
	Save(ctx context.Context, batchID string, styleID domain.StyleID, attempt int, img *genimage.Image) (string, error)
}

// Options wires the orchestrator's collaborators.
type Options struct {
	Generator genimage.Generator
	Evaluator vision.Evaluator
	Reader    textcheck.Reader
	Refiner   *instruction.Refiner

	// Plan overrides the style policy; defaults to policy.Plan.
	Plan func(domain.BrandContext) []domain.StyleSpec
	// Sink persists image bytes; optional.
	Sink ImageSink
	// OnResult is invoked once per finished style, from that style's own
	// goroutine. Optional.
	OnResult func(domain.Candidate)

	Logger      *infra.Logger
	Concurrency int64

	GenerateTimeout time.Duration
	EvaluateTimeout time.Duration
	ReadTimeout     time.Duration
}

// Orchestrator runs concept batches. Safe for concurrent use.
type Orchestrator struct {
	opts   Options
	logger infra.Logger
}

// New validates the options and builds an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Generator == nil {
		return nil, errors.New("orchestrator: generator is required")
	}
	if opts.Evaluator == nil {
		return nil, errors.New("orchestrator: evaluator is required")
	}
	if opts.Reader == nil {
		return nil, errors.New("orchestrator: text reader is required")
	}
	if opts.Refiner == nil {
		opts.Refiner = instruction.NewRefiner(nil)
	}
	if opts.Plan == nil {
		opts.Plan = policy.Plan
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = defaultGenerateTimeout
	}
	if opts.EvaluateTimeout <= 0 {
		opts.EvaluateTimeout = defaultEvaluateTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Orchestrator{opts: opts, logger: logger}, nil
}

// Run executes one batch: every style the policy requests, at most
// Concurrency loops in flight at once. Style loops never share mutable
// state, so one style's failure or exhaustion cannot touch another's result.
//
// Cancellation propagates to in-flight loops; styles that already finished
// keep their results, and Run returns the partial set together with the
// context error.
func (o *Orchestrator) Run(ctx context.Context, brand domain.BrandContext) (*domain.ConceptSet, error) {
	if brand.Normalized() == "" {
		return nil, domain.ErrInvalidBrand
	}
	specs := o.opts.Plan(brand)
	set := &domain.ConceptSet{
		BatchID:    uuid.NewString(),
		Brand:      brand.Normalized(),
		StartedAt:  time.Now(),
		Candidates: make([]domain.Candidate, len(specs)),
	}
	o.logger.Info().Str("batch_id", set.BatchID).Str("brand", set.Brand).Int("styles", len(specs)).Msg("concept batch started")

	sem := semaphore.NewWeighted(o.opts.Concurrency)
	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		go func(i int, spec domain.StyleSpec) {
			defer wg.Done()
			var cand domain.Candidate
			if err := sem.Acquire(ctx, 1); err != nil {
				// Cancelled before the loop ever started.
				cand = domain.Candidate{ID: uuid.NewString(), Style: spec, Outcome: domain.OutcomeFailedToGenerate}
			} else {
				cand = o.runStyle(ctx, set.BatchID, brand, spec)
				sem.Release(1)
			}
			set.Candidates[i] = cand
			if o.opts.OnResult != nil {
				o.opts.OnResult(cand)
			}
		}(i, spec)
	}
	wg.Wait()
	set.FinishedAt = time.Now()

	o.logger.Info().
		Str("batch_id", set.BatchID).
		Int("accepted", set.AcceptedCount()).
		Int("total", len(set.Candidates)).
		Dur("elapsed", set.FinishedAt.Sub(set.StartedAt)).
		Msg("concept batch finished")

	if err := ctx.Err(); err != nil {
		return set, err
	}
	return set, nil
}
