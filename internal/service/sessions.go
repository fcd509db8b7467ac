package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/inventory-console/internal/metrics"
	"github.com/iyhunko/inventory-console/internal/store"
)

type session struct {
	store    *store.Store
	lastSeen time.Time
}

// Sessions holds one store per browser profile.
type Sessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	now      func() time.Time
}

// NewSessions creates an empty registry.
func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[uuid.UUID]*session),
		now:      time.Now,
	}
}

// Get returns the store of profileID, creating it on first use. created is true when
// the store is new and has never been synced.
func (s *Sessions) Get(profileID uuid.UUID) (st *store.Store, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[profileID]
	if !ok {
		sess = &session{store: store.New()}
		s.sessions[profileID] = sess
		metrics.SessionsActive.Set(float64(len(s.sessions)))
	}
	sess.lastSeen = s.now()
	return sess.store, !ok
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdle drops sessions not used for longer than ttl and returns how many were dropped.
func (s *Sessions) EvictIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	metrics.SessionsEvicted.Add(float64(evicted))
	return evicted
}
