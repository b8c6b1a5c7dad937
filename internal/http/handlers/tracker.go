package handlers

import (
	"sync"
	"time"

	"pipeline/internal/domain"
)

// CandidateView is the wire shape of one finished style.
type CandidateView struct {
	Style    string   `json:"style"`
	Outcome  string   `json:"outcome"`
	Accepted bool     `json:"accepted"`
	Attempts int      `json:"attempts"`
	Score    int      `json:"score"`
	ImageRef string   `json:"image_ref,omitempty"`
	Flags    []string `json:"flags,omitempty"`
}

// BatchView is the wire shape of a batch, current or finished.
type BatchView struct {
	BatchID    string          `json:"batch_id,omitempty"`
	Brand      string          `json:"brand"`
	Styles     int             `json:"styles"`
	Done       int             `json:"done"`
	Accepted   int             `json:"accepted"`
	Running    bool            `json:"running"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Candidates []CandidateView `json:"candidates"`
}

// Tracker accumulates per-style results while a batch runs. It is fed from
// the orchestrator's result callback, which fires on the style goroutines,
// so every method takes the lock. One batch at a time.
type Tracker struct {
	mu      sync.RWMutex
	current *BatchView
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin resets the tracker for a new batch.
func (t *Tracker) Begin(brand string, styles int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = &BatchView{
		Brand:      brand,
		Styles:     styles,
		Running:    true,
		StartedAt:  time.Now(),
		Candidates: make([]CandidateView, 0, styles),
	}
}

// Record adds one finished style to the running batch.
func (t *Tracker) Record(cand domain.Candidate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return
	}
	view := CandidateView{
		Style:    string(cand.Style.ID),
		Outcome:  string(cand.Outcome),
		Accepted: cand.Accepted,
		Attempts: cand.AttemptCount,
		ImageRef: cand.ImageRef,
	}
	if cand.Evaluation != nil {
		view.Score = cand.Evaluation.Score
		view.Flags = cand.Evaluation.Flags.Strings()
	}
	t.current.Candidates = append(t.current.Candidates, view)
	t.current.Done++
	if cand.Accepted {
		t.current.Accepted++
	}
}

// Finish marks the batch done and stamps the identifiers the orchestrator
// assigned to it.
func (t *Tracker) Finish(set *domain.ConceptSet) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return
	}
	t.current.BatchID = set.BatchID
	t.current.Running = false
	finished := set.FinishedAt
	t.current.FinishedAt = &finished
}

// Snapshot returns a copy of the current batch state, or false when no batch
// has been started yet.
func (t *Tracker) Snapshot() (BatchView, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.current == nil {
		return BatchView{}, false
	}
	view := *t.current
	view.Candidates = append([]CandidateView(nil), t.current.Candidates...)
	return view, true
}
