package store

import (
	"log/slog"
	"sync"
	"time"
)

// Store is a mutex guarded State driven only through Reduce.
type Store struct {
	mu    sync.Mutex
	state State

	readSeq  Token
	writeSeq Token
}

// New returns a Store in the idle state with an empty product list.
func New() *Store {
	return &Store{state: State{Status: StatusIdle}}
}

// BeginSync issues a read token and records the sync start. The loading indicator
// stays up at least until loadingUntil.
func (s *Store) BeginSync(loadingUntil time.Time) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readSeq++
	s.apply(SyncStart{Token: s.readSeq, LoadingUntil: loadingUntil})
	return s.readSeq
}

// BeginWrite issues a write token and records the write start.
func (s *Store) BeginWrite() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeSeq++
	s.apply(WriteStart{Token: s.writeSeq})
	return s.writeSeq
}

// Dispatch applies a and reports false when a was dropped as stale.
func (s *Store) Dispatch(a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(a)
}

func (s *Store) apply(a Action) bool {
	if Stale(s.state, a) {
		slog.Debug("dropping stale completion", slog.String("action", string(a.Kind())))
		return false
	}
	s.state = Reduce(s.state, a)
	return true
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Render returns the state to draw and consumes the one-shot success message.
func (s *Store) Render() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.state.Clone()
	s.state = Reduce(s.state, MessageShown{})
	return snap
}
