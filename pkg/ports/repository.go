package ports

import (
	"context"
	"time"

	"github.com/tumaini/bizmanager/pkg/domain"
)

// ProfileUpdate carries the optional fields of a profile edit. Nil
// fields are left untouched.
type ProfileUpdate struct {
	Name     *string
	Business *string
	Location *string
}

// Repository is the persistence adapter consumed by the dialog core.
// Each call is independent; no cross-call transaction is assumed.
//
// Create operations take an idempotency key derived from the session
// and the step that produced the write. A repository that has already
// seen the key returns domain.ErrDuplicateWrite without writing, so a
// duplicate gateway delivery cannot double-write.
type Repository interface {
	FindProfileByPhone(ctx context.Context, phone string) (*domain.Profile, error)
	CreateProfile(ctx context.Context, p *domain.Profile, idemKey string) error
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error

	ListStockForOwner(ctx context.Context, phone string) ([]domain.StockItem, error)
	FindStockItem(ctx context.Context, id string) (*domain.StockItem, error)
	CreateStockItem(ctx context.Context, item *domain.StockItem, idemKey string) error
	UpdateStockQuantity(ctx context.Context, id string, quantity int) error

	CreateTransaction(ctx context.Context, tx *domain.Transaction, idemKey string) error
	// DeleteTransaction exists solely as the compensating action of the
	// revenue saga; transactions are otherwise append-only.
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactionsSince(ctx context.Context, phone string, since time.Time) ([]domain.Transaction, error)

	CreateGoal(ctx context.Context, g *domain.Goal, idemKey string) error
	CreateReminder(ctx context.Context, r *domain.Reminder, idemKey string) error
}
