package ports

import (
	"context"
	"time"

	"github.com/tumaini/bizmanager/pkg/domain"
)

// SessionStore persists session records between gateway requests.
type SessionStore interface {
	// Save persists the session under its id.
	Save(ctx context.Context, sess *domain.Session) error

	// Load retrieves a session. Returns domain.ErrSessionNotFound if
	// the id is unknown or the record has expired.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of live sessions.
	List(ctx context.Context) ([]string, error)

	// EvictStale drops every session idle for longer than maxAge and
	// returns how many were removed.
	EvictStale(ctx context.Context, maxAge time.Duration) (int, error)
}
