// Package review drives the human review workflow: an ordered queue of
// previously-submitted images, a cursor, and verify / flag / correct /
// advance transitions against the review backend.
package review

import (
	"context"
	"errors"
	"strings"
	"sync"

	"visiondash/internal/apperr"
	"visiondash/internal/logger"
	"visiondash/internal/model"
	"visiondash/internal/repository"
)

// ErrStaleLoad marks a load result that completed after the session had
// already moved past the item it was issued for. Callers discard it.
var ErrStaleLoad = errors.New("load result is stale")

// State is the review session's position in its lifecycle.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateAwaitingDecision
	StateCorrectionPending
	StateSubmitting
	StateExhausted
	StateLoadError
)

var stateNames = map[State]string{
	StateEmpty:             "empty",
	StateLoading:           "loading",
	StateAwaitingDecision:  "awaiting_decision",
	StateCorrectionPending: "correction_pending",
	StateSubmitting:        "submitting",
	StateExhausted:         "exhausted",
	StateLoadError:         "load_error",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Backend is the slice of backend capability the session consumes.
type Backend interface {
	ListUnreviewed(ctx context.Context, limit int) ([]string, error)
	FetchImage(ctx context.Context, path string) ([]byte, error)
	FetchPrediction(ctx context.Context, path string) (*model.DetectionSet, error)
	SubmitDecision(ctx context.Context, path string, decision model.Decision) error
}

// ItemView is the current item resolved for display. Prediction is nil when
// none is stored, which shows the image with no overlay.
type ItemView struct {
	Item       model.ReviewItem
	Image      []byte
	Prediction *model.DetectionSet
}

// Snapshot is a read-only view of the session for the UI.
type Snapshot struct {
	State  State
	Cursor int
	Total  int
	Item   string
}

// Session owns the review queue and cursor. All mutation goes through its
// transition methods; the mutex serializes them, and the Submitting state
// rejects a second submission while one is in flight.
type Session struct {
	backend  Backend
	journal  repository.DecisionRepository
	logger   *logger.Logger
	pageSize int

	mu         sync.Mutex
	queue      []model.ReviewItem
	cursor     int
	state      State
	generation int
}

// NewSession creates an empty session. journal may be nil to disable the
// local decision journal.
func NewSession(backend Backend, journal repository.DecisionRepository, pageSize int, logger *logger.Logger) *Session {
	return &Session{
		backend:  backend,
		journal:  journal,
		logger:   logger,
		pageSize: pageSize,
		state:    StateEmpty,
	}
}

// Activate discards any prior queue and cursor, fetches a fresh page of
// unreviewed items, and positions the cursor on the first one. Zero items
// is Exhausted; a fetch failure is LoadError. Both require a new Activate
// to recover.
func (s *Session) Activate(ctx context.Context) error {
	s.mu.Lock()
	s.queue = nil
	s.cursor = 0
	s.state = StateLoading
	s.generation++
	gen := s.generation
	limit := s.pageSize
	s.mu.Unlock()

	paths, err := s.backend.ListUnreviewed(ctx, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// A newer activation superseded this one while it was in flight.
		return ErrStaleLoad
	}

	if err != nil {
		s.state = StateLoadError
		s.logger.Error("Review queue fetch failed: %v", err)
		return err
	}

	if len(paths) == 0 {
		s.state = StateExhausted
		s.logger.Info("Review queue is empty")
		return nil
	}

	s.queue = make([]model.ReviewItem, 0, len(paths))
	for _, p := range paths {
		s.queue = append(s.queue, model.ReviewItem{Path: p})
	}
	s.state = StateAwaitingDecision
	s.logger.Info("Review session activated with %d items", len(s.queue))
	return nil
}

// Snapshot returns the session's current state for display.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{State: s.state, Cursor: s.cursor, Total: len(s.queue)}
	if s.cursor < len(s.queue) {
		snap.Item = s.queue[s.cursor].Path
	}
	return snap
}

// Current returns the item under the cursor, if any.
func (s *Session) Current() (model.ReviewItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor < len(s.queue) && hasCurrent(s.state) {
		return s.queue[s.cursor], true
	}
	return model.ReviewItem{}, false
}

// LoadCurrent fetches the current item's image and, best-effort, its stored
// prediction. The prediction fetch runs concurrently and a failure there
// only degrades to no overlay. The whole result is tagged with the item it
// was issued for: if the session has advanced by the time the fetches
// finish, ErrStaleLoad is returned instead of the wrong item's data.
func (s *Session) LoadCurrent(ctx context.Context) (*ItemView, error) {
	s.mu.Lock()
	if !hasCurrent(s.state) || s.cursor >= len(s.queue) {
		state := s.state
		s.mu.Unlock()
		return nil, apperr.InvalidState("no item to load in state " + state.String())
	}
	item := s.queue[s.cursor]
	s.mu.Unlock()

	predCh := make(chan *model.DetectionSet, 1)
	go func() {
		pred, err := s.backend.FetchPrediction(ctx, item.Path)
		if err != nil {
			s.logger.Warning("Prediction fetch for %s failed: %v", item.Path, err)
			predCh <- nil
			return
		}
		predCh <- pred
	}()

	img, err := s.backend.FetchImage(ctx, item.Path)
	pred := <-predCh
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor >= len(s.queue) || s.queue[s.cursor].Path != item.Path {
		return nil, ErrStaleLoad
	}

	return &ItemView{Item: item, Image: img, Prediction: pred}, nil
}

// Verify submits the verified decision for the current item.
func (s *Session) Verify(ctx context.Context) error {
	return s.submit(ctx, model.Verified(), StateAwaitingDecision)
}

// FlagIncorrect enters the correction sub-state. No backend contact yet.
func (s *Session) FlagIncorrect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingDecision {
		return apperr.InvalidState("flag is only valid while awaiting a decision, state is " + s.state.String())
	}
	s.state = StateCorrectionPending
	return nil
}

// SubmitCorrection submits a corrected label for the current item. An empty
// label is rejected locally before any network call.
func (s *Session) SubmitCorrection(ctx context.Context, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return apperr.Validation("correction label must not be empty")
	}
	return s.submit(ctx, model.Corrected(label), StateCorrectionPending)
}

// Next skips the current item without recording a decision. Intended only
// after a decision was already durably submitted elsewhere, never as a
// substitute for submission.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !hasCurrent(s.state) {
		return apperr.InvalidState("no current item to skip in state " + s.state.String())
	}
	s.advanceLocked()
	return nil
}

// submit sends the decision exactly once. On success the cursor advances;
// on failure the session returns to the exact state the submission started
// from so the user can retry. The Submitting state makes a concurrent
// second submit impossible, and a result landing after a re-activation is
// discarded rather than applied to the new queue.
func (s *Session) submit(ctx context.Context, decision model.Decision, fromState State) error {
	s.mu.Lock()
	if s.state != fromState {
		state := s.state
		s.mu.Unlock()
		if state == StateSubmitting {
			return apperr.InvalidState("a submission is already in flight")
		}
		return apperr.InvalidState("submit of " + string(decision.Kind) + " is not valid in state " + state.String())
	}
	item := s.queue[s.cursor]
	gen := s.generation
	s.state = StateSubmitting
	s.mu.Unlock()

	err := s.backend.SubmitDecision(ctx, item.Path, decision)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Warning("Discarding submit result for %s: session was re-activated", item.Path)
		return ErrStaleLoad
	}

	if err != nil {
		s.state = fromState
		s.logger.Error("Decision submit for %s failed: %v", item.Path, err)
		return err
	}

	d := decision
	s.queue[s.cursor].Decision = &d
	s.journalDecision(item.Path, decision)
	s.advanceLocked()
	s.logger.Info("Recorded %s for %s, cursor now %d/%d", decision.Kind, item.Path, s.cursor, len(s.queue))
	return nil
}

// advanceLocked moves the cursor forward. The cursor never decreases;
// reaching the queue length is the terminal exhausted state.
func (s *Session) advanceLocked() {
	s.cursor++
	if s.cursor < len(s.queue) {
		s.state = StateAwaitingDecision
	} else {
		s.cursor = len(s.queue)
		s.state = StateExhausted
	}
}

// journalDecision records the decision locally, best-effort.
func (s *Session) journalDecision(path string, decision model.Decision) {
	if s.journal == nil {
		return
	}
	rec := &model.DecisionRecord{ItemPath: path, Kind: decision.Kind, Label: decision.Label}
	if _, err := s.journal.Insert(rec); err != nil {
		s.logger.Warning("Failed to journal decision for %s: %v", path, err)
	}
}

func hasCurrent(state State) bool {
	return state == StateAwaitingDecision || state == StateCorrectionPending
}
