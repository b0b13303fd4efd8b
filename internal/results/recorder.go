// Package results persists completed quiz scores, deferring across the
// auth boundary when no session exists yet.
package results

import (
	"context"
	"sync"

	"github.com/quizler/quizler/internal/logger"
)

// Result is one completed quiz outcome.
type Result struct {
	Score      int
	Total      int
	Percentage int
	PageURL    string
	PageTitle  string
}

// Store persists a result for the signed-in user.
type Store interface {
	SaveResult(ctx context.Context, res Result) error
}

// SessionSource reports whether an authenticated session exists.
type SessionSource interface {
	SignedIn() bool
}

// SessionSourceFunc adapts a function to SessionSource.
type SessionSourceFunc func() bool

func (f SessionSourceFunc) SignedIn() bool { return f() }

// Recorder routes completed quiz scores to the store, holding at most
// one pending result while no session exists.
type Recorder struct {
	store   Store
	session SessionSource
	log     *logger.Logger

	mu      sync.Mutex
	pending *Result
}

// NewRecorder creates a Recorder. log may not be nil; use logger.Nop()
// in tests.
func NewRecorder(store Store, session SessionSource, log *logger.Logger) *Recorder {
	return &Recorder{store: store, session: session, log: log}
}

// SaveResult persists the result immediately when a session exists and
// reports whether it was saved. Without a session the result becomes
// the single pending result (overwriting any prior unflushed one) and
// false is returned.
//
// Persistence failures are logged, never surfaced: a failed save must
// not block quiz UX.
func (r *Recorder) SaveResult(ctx context.Context, res Result) bool {
	if !r.session.SignedIn() {
		r.mu.Lock()
		r.pending = &res
		r.mu.Unlock()
		return false
	}

	if err := r.store.SaveResult(ctx, res); err != nil {
		r.log.Warn("failed to persist quiz result", "error", err)
		return false
	}
	return true
}

// OnSignIn flushes the pending result, if any, via the immediate
// persist path. The pending slot is taken before the store call, so a
// result flushes at most once per sign-in transition even when a
// concurrent save races with it.
func (r *Recorder) OnSignIn(ctx context.Context) {
	r.mu.Lock()
	res := r.pending
	r.pending = nil
	r.mu.Unlock()

	if res == nil {
		return
	}

	if err := r.store.SaveResult(ctx, *res); err != nil {
		r.log.Warn("failed to flush pending quiz result", "error", err)
	}
}

// HasPending reports whether an unflushed result is being held.
func (r *Recorder) HasPending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending != nil
}

// Notifier distributes auth-state transitions to subscribers. It
// decouples the recorder from any particular auth provider's callback
// shape.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(signedIn bool)
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(bool))}
}

// Subscribe registers a callback for auth-state changes and returns an
// unsubscribe function.
func (n *Notifier) Subscribe(fn func(signedIn bool)) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Publish notifies all subscribers of an auth-state change.
func (n *Notifier) Publish(signedIn bool) {
	n.mu.Lock()
	subs := make([]func(bool), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()

	for _, fn := range subs {
		fn(signedIn)
	}
}
