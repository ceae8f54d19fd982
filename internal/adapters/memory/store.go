// Package memory provides the in-process session store. It is the
// default for a single-instance deployment; the redis store covers
// multi-replica setups.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tumaini/bizmanager/pkg/domain"
)

// Store implements ports.SessionStore in memory. Safe for concurrent
// use. Expiry is checked lazily on Load and reclaimed by EvictStale.
type Store struct {
	data map[string]*domain.Session
	ttl  time.Duration
	mu   sync.RWMutex
}

// Option configures the store.
type Option func(*Store)

// WithTTL sets the inactivity window after which Load treats a session
// as gone. Zero disables lazy expiry (EvictStale still applies).
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// NewStore creates an empty in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{data: make(map[string]*domain.Session)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// clone copies a session so callers can never mutate stored state
// through a shared pointer.
func clone(sess *domain.Session) *domain.Session {
	cp := *sess
	if sess.Registration != nil {
		v := *sess.Registration
		cp.Registration = &v
	}
	if sess.Revenue != nil {
		v := *sess.Revenue
		cp.Revenue = &v
	}
	if sess.Expense != nil {
		v := *sess.Expense
		cp.Expense = &v
	}
	if sess.Stock != nil {
		v := *sess.Stock
		cp.Stock = &v
	}
	if sess.Goal != nil {
		v := *sess.Goal
		cp.Goal = &v
	}
	if sess.Reminder != nil {
		v := *sess.Reminder
		cp.Reminder = &v
	}
	return &cp
}

// Save persists the session.
func (s *Store) Save(ctx context.Context, sess *domain.Session) error {
	cp := clone(sess)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sess.ID] = cp
	return nil
}

// Load retrieves a session, treating expired records as absent.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.data[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.ttl > 0 && time.Since(sess.LastSeen) > s.ttl {
		// Expired but not yet swept. A fresh request restarts the
		// conversation from the initial state.
		s.mu.Lock()
		delete(s.data, sessionID)
		s.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}

	return clone(sess), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns the ids of live sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

// EvictStale drops sessions idle for longer than maxAge.
func (s *Store) EvictStale(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.data {
		if sess.LastSeen.Before(cutoff) {
			delete(s.data, id)
			n++
		}
	}
	return n, nil
}
