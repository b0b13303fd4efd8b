// Package quiz holds the client-side quiz session: question
// progression, selection, scoring, and completion handoff.
package quiz

import (
	"context"
	"math"
	"sync"

	"github.com/quizler/quizler/internal/quizgen"
)

// Status is the session lifecycle state.
type Status string

const (
	// StatusIdle means no quiz has been requested yet.
	StatusIdle Status = "idle"

	// StatusLoading means a generation request is in flight.
	StatusLoading Status = "loading"

	// StatusReady means a valid payload is loaded and questions are
	// being answered.
	StatusReady Status = "ready"

	// StatusComplete means the final question has been submitted.
	StatusComplete Status = "complete"

	// StatusError means the last generation request failed.
	StatusError Status = "error"
)

// Loader fetches a quiz payload. Implementations wrap the backend call;
// the session only sees the result.
type Loader func(ctx context.Context) (*quizgen.Payload, error)

// ResultSink receives the final score exactly once per completed quiz.
type ResultSink interface {
	SaveResult(score, total, percentage int)
}

// ResultSinkFunc adapts a function to the ResultSink interface.
type ResultSinkFunc func(score, total, percentage int)

func (f ResultSinkFunc) SaveResult(score, total, percentage int) { f(score, total, percentage) }

// Observer is notified on every status change.
type Observer func(Status)

// Session drives one quiz from request through completion.
//
// All methods are safe for the single UI flow plus the loader callback;
// a mutex guards the transition between the two.
type Session struct {
	mu sync.Mutex

	loader Loader
	sink   ResultSink

	status  Status
	errMsg  string
	payload *quizgen.Payload

	index     int
	selection int // -1 = no option selected
	revealed  bool
	correct   int
	completed bool

	// generation invalidates loader results that land after a
	// Close or a newer request.
	generation int

	observers map[int]Observer
	nextObsID int
}

// NewSession creates an idle session. The sink may be nil when results
// are not persisted (previews).
func NewSession(loader Loader, sink ResultSink) *Session {
	return &Session{
		loader:    loader,
		sink:      sink,
		status:    StatusIdle,
		selection: -1,
		observers: make(map[int]Observer),
	}
}

// Subscribe registers an observer for status changes and returns an
// unsubscribe function. The observer shape is independent of any auth
// provider or UI framework callback.
func (s *Session) Subscribe(obs Observer) func() {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = obs
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// setStatus transitions and notifies observers. Callers hold the lock;
// observers run without it so they may call back into the session.
func (s *Session) setStatus(st Status) {
	s.status = st
	obs := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		obs = append(obs, o)
	}
	s.mu.Unlock()
	for _, o := range obs {
		o(st)
	}
	s.mu.Lock()
}

// Open starts the session. With no payload loaded it triggers a
// request; with one already loaded it is a no-op.
func (s *Session) Open(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusIdle || s.status == StatusError {
		s.requestLocked(ctx)
	}
}

// Retry re-requests a quiz after an error. Manual action only; the
// session never retries on its own.
func (s *Session) Retry(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusError {
		s.requestLocked(ctx)
	}
}

func (s *Session) requestLocked(ctx context.Context) {
	if s.loader == nil {
		s.errMsg = "no quiz source configured"
		s.setStatus(StatusError)
		return
	}

	s.generation++
	gen := s.generation
	s.payload = nil
	s.errMsg = ""
	s.setStatus(StatusLoading)

	go func() {
		payload, err := s.loader(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.generation {
			// Session was closed or superseded while in flight.
			return
		}

		if err != nil {
			s.errMsg = err.Error()
			s.setStatus(StatusError)
			return
		}
		if !quizgen.Valid(payload) {
			s.errMsg = "quiz is not ready yet"
			s.setStatus(StatusError)
			return
		}

		s.payload = payload
		s.resetProgressLocked()
		s.setStatus(StatusReady)
	}()
}

// Close abandons any in-flight request and discards the payload.
// The payload lives only for one widget session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.payload = nil
	s.resetProgressLocked()
	s.setStatus(StatusIdle)
}

// Reopen resets all transient state and begins a new cycle. A quiz is
// re-requested only when the session has nothing to show (idle or
// error); a loaded payload is replayed from the first question.
func (s *Session) Reopen(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetProgressLocked()

	switch s.status {
	case StatusIdle, StatusError:
		s.requestLocked(ctx)
	case StatusComplete:
		s.setStatus(StatusReady)
	}
}

func (s *Session) resetProgressLocked() {
	s.index = 0
	s.selection = -1
	s.revealed = false
	s.correct = 0
	s.completed = false
}

// Select records the chosen option for the current question.
// Selection does not reveal correctness. Returns false when the
// session is not accepting answers or the index is out of range.
func (s *Session) Select(option int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusReady || s.revealed || s.completed {
		return false
	}
	if option < 0 || option >= quizgen.OptionCount {
		return false
	}
	s.selection = option
	return true
}

// Submit evaluates the current selection. Blocked until a selection
// exists. Correctness is evaluated at the moment of submission and the
// running count is incremented exactly once per question.
//
// Submitting the final question completes the session: the final count
// includes the just-submitted answer, and the result sink is invoked
// exactly once.
func (s *Session) Submit() bool {
	s.mu.Lock()

	if s.status != StatusReady || s.revealed || s.completed || s.selection < 0 {
		s.mu.Unlock()
		return false
	}

	q := s.payload.Questions[s.index]
	s.revealed = true
	if s.selection == q.CorrectIndex {
		s.correct++
	}

	last := s.index == len(s.payload.Questions)-1
	score := s.correct
	total := len(s.payload.Questions)
	sink := s.sink

	if last {
		s.completed = true
		s.setStatus(StatusComplete)
	}
	s.mu.Unlock()

	// The sink call happens outside the lock: persistence is
	// fire-and-forget from the state machine's perspective.
	if last && sink != nil {
		sink.SaveResult(score, total, Percent(score, total))
	}

	return true
}

// Next advances to the following question, clearing the selection and
// result visibility. Blocked until the current answer was submitted.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusReady || !s.revealed || s.completed {
		return false
	}

	s.index++
	s.selection = -1
	s.revealed = false
	return true
}

// Percent computes round(100 * correct / total).
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the last error message, if the session is in error state.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Current returns the question being asked and its position, or nil
// when no payload is loaded or the quiz is complete.
func (s *Session) Current() (*quizgen.Item, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payload == nil || s.completed || s.index >= len(s.payload.Questions) {
		return nil, 0
	}
	q := s.payload.Questions[s.index]
	return &q, s.index
}

// Progress reports the question index, total count, and running
// correct count.
func (s *Session) Progress() (index, total, correct int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total = 0
	if s.payload != nil {
		total = len(s.payload.Questions)
	}
	return s.index, total, s.correct
}

// Selection returns the currently selected option, or -1.
func (s *Session) Selection() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Revealed reports whether the current question's result is showing.
func (s *Session) Revealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revealed
}

// Completed reports whether the final question has been submitted.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}
