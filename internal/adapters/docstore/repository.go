package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"github.com/tumaini/bizmanager/pkg/domain"
	"github.com/tumaini/bizmanager/pkg/ports"
)

// Repository implements ports.Repository over the document store.
type Repository struct {
	store *Store
}

// NewRepository wraps a document store with the typed record API.
func NewRepository(store *Store) *Repository {
	return &Repository{store: store}
}

var _ ports.Repository = (*Repository)(nil)

// decodeDoc maps a stored document onto a typed record. Timestamps and
// decimals travel as strings inside the JSON payloads.
func decodeDoc(doc Document, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: out,
		// JSON numbers arrive as float64 and must land in int fields.
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			stringToDecimalHook,
		),
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(doc)); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// stringToDecimalHook converts JSON string/number values into
// decimal.Decimal fields.
func stringToDecimalHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(decimal.Decimal{}) {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return data, nil
	}
}

// encodeDoc converts a typed record into a document via its JSON form,
// so field names and value encodings match what decodeDoc expects.
func encodeDoc(in any) (Document, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to build document: %w", err)
	}
	return doc, nil
}

// FindProfileByPhone returns the profile registered for phone.
func (r *Repository) FindProfileByPhone(ctx context.Context, phone string) (*domain.Profile, error) {
	docs, err := r.store.Query(ctx, CollectionProfiles, Eq("phone", phone))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}

	var p domain.Profile
	if err := decodeDoc(docs[0], &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProfile stores a new profile and fills in its generated id.
func (r *Repository) CreateProfile(ctx context.Context, p *domain.Profile, idemKey string) error {
	doc, err := encodeDoc(p)
	if err != nil {
		return err
	}
	id, ok, err := r.store.Create(ctx, CollectionProfiles, doc, idemKey)
	if err != nil {
		return err
	}
	p.ID = id
	if !ok {
		return domain.ErrDuplicateWrite
	}
	return nil
}

// UpdateProfile applies the non-nil fields of upd.
func (r *Repository) UpdateProfile(ctx context.Context, id string, upd ports.ProfileUpdate) error {
	fields := Document{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Business != nil {
		fields["business"] = *upd.Business
	}
	if upd.Location != nil {
		fields["location"] = *upd.Location
	}
	if len(fields) == 0 {
		return nil
	}

	err := r.store.Update(ctx, CollectionProfiles, id, fields)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	return err
}

// ListStockForOwner returns the owner's inventory lines.
func (r *Repository) ListStockForOwner(ctx context.Context, phone string) ([]domain.StockItem, error) {
	docs, err := r.store.Query(ctx, CollectionStock, Eq("owner", phone))
	if err != nil {
		return nil, err
	}

	items := make([]domain.StockItem, 0, len(docs))
	for _, doc := range docs {
		var item domain.StockItem
		if err := decodeDoc(doc, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// FindStockItem loads one stock line by id.
func (r *Repository) FindStockItem(ctx context.Context, id string) (*domain.StockItem, error) {
	doc, err := r.store.Get(ctx, CollectionStock, id)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var item domain.StockItem
	if err := decodeDoc(doc, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateStockItem stores a new inventory line.
func (r *Repository) CreateStockItem(ctx context.Context, item *domain.StockItem, idemKey string) error {
	doc, err := encodeDoc(item)
	if err != nil {
		return err
	}
	id, ok, err := r.store.Create(ctx, CollectionStock, doc, idemKey)
	if err != nil {
		return err
	}
	item.ID = id
	if !ok {
		return domain.ErrDuplicateWrite
	}
	return nil
}

// UpdateStockQuantity sets the remaining quantity of a stock line.
func (r *Repository) UpdateStockQuantity(ctx context.Context, id string, quantity int) error {
	err := r.store.Update(ctx, CollectionStock, id, Document{"quantity": quantity})
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	return err
}

// CreateTransaction appends one ledger entry.
func (r *Repository) CreateTransaction(ctx context.Context, tx *domain.Transaction, idemKey string) error {
	doc, err := encodeDoc(tx)
	if err != nil {
		return err
	}
	id, ok, err := r.store.Create(ctx, CollectionTransactions, doc, idemKey)
	if err != nil {
		return err
	}
	tx.ID = id
	if !ok {
		return domain.ErrDuplicateWrite
	}
	return nil
}

// DeleteTransaction reverses a transaction during saga compensation.
func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	return r.store.Delete(ctx, CollectionTransactions, id)
}

// ListTransactionsSince returns the owner's transactions at or after
// the given instant.
func (r *Repository) ListTransactionsSince(ctx context.Context, phone string, since time.Time) ([]domain.Transaction, error) {
	docs, err := r.store.Query(ctx, CollectionTransactions,
		Eq("owner", phone),
		Since("occurred_at", since),
	)
	if err != nil {
		return nil, err
	}

	txs := make([]domain.Transaction, 0, len(docs))
	for _, doc := range docs {
		var tx domain.Transaction
		if err := decodeDoc(doc, &tx); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// CreateGoal stores a savings target.
func (r *Repository) CreateGoal(ctx context.Context, g *domain.Goal, idemKey string) error {
	doc, err := encodeDoc(g)
	if err != nil {
		return err
	}
	id, ok, err := r.store.Create(ctx, CollectionGoals, doc, idemKey)
	if err != nil {
		return err
	}
	g.ID = id
	if !ok {
		return domain.ErrDuplicateWrite
	}
	return nil
}

// CreateReminder stores a recurring expense reminder.
func (r *Repository) CreateReminder(ctx context.Context, rem *domain.Reminder, idemKey string) error {
	doc, err := encodeDoc(rem)
	if err != nil {
		return err
	}
	id, ok, err := r.store.Create(ctx, CollectionReminders, doc, idemKey)
	if err != nil {
		return err
	}
	rem.ID = id
	if !ok {
		return domain.ErrDuplicateWrite
	}
	return nil
}
