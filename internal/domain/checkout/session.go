package checkout

import (
	"sync"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared"
)

// SubmissionState is the state of the order submission for a checkout session
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateSubmitting SubmissionState = "submitting"
	StateSucceeded  SubmissionState = "succeeded"
	StateFailed     SubmissionState = "failed"
)

// IsTerminal reports whether the state must be acknowledged before the next submission
func (s SubmissionState) IsTerminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// Session errors
var (
	ErrSubmissionInProgress = shared.NewInvalidStateError("SUBMISSION_IN_PROGRESS", "an order submission is already in progress")
	ErrSubmissionNotStarted = shared.NewInvalidStateError("SUBMISSION_NOT_STARTED", "no order submission is in progress")
)

// Session tracks one checkout: the submission state machine
// (idle -> submitting -> succeeded|failed -> idle) and the last shipping quote.
// The orchestrator does not deduplicate submissions; callers guard with Begin.
type Session struct {
	mu      sync.Mutex
	state   SubmissionState
	lastErr error
	quote   *ShippingQuote
}

// NewSession returns an idle session
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// State returns the current state
func (s *Session) State() SubmissionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin moves to submitting. It fails while another submission is in flight.
// An unacknowledged terminal state is acknowledged implicitly.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return ErrSubmissionInProgress
	}
	s.state = StateSubmitting
	s.lastErr = nil
	return nil
}

// Finish records the outcome of the in-flight submission
func (s *Session) Finish(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSubmitting {
		return ErrSubmissionNotStarted
	}
	if err != nil {
		s.state = StateFailed
		s.lastErr = err
		return nil
	}
	s.state = StateSucceeded
	s.quote = nil
	return nil
}

// Acknowledge returns a terminal session to idle and reports what was observed
func (s *Session) Acknowledge() (SubmissionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	observed, err := s.state, s.lastErr
	if observed.IsTerminal() {
		s.state = StateIdle
		s.lastErr = nil
	}
	return observed, err
}

// SetQuote stores the shipping quote of the last address resolution; nil clears it
func (s *Session) SetQuote(q *ShippingQuote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q == nil {
		s.quote = nil
		return
	}
	c := *q
	s.quote = &c
}

// Quote returns a copy of the stored shipping quote, or nil
func (s *Session) Quote() *ShippingQuote {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quote == nil {
		return nil
	}
	c := *s.quote
	return &c
}
