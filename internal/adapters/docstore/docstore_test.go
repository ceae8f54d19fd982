package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, ok, err := store.Create(ctx, CollectionProfiles, Document{"phone": "+1", "name": "Alice"}, "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, id)

	doc, err := store.Get(ctx, CollectionProfiles, id)
	require.NoError(t, err)
	assert.Equal(t, "Alice", doc["name"])
	assert.Equal(t, id, doc["id"])
}

func TestIdempotencyKeyAbsorbsReplay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id1, ok, err := store.Create(ctx, CollectionTransactions, Document{"amount": "50"}, "key-1")
	require.NoError(t, err)
	assert.True(t, ok)

	id2, ok, err := store.Create(ctx, CollectionTransactions, Document{"amount": "50"}, "key-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, id1, id2, "replay resolves to the original document")

	docs, err := store.Query(ctx, CollectionTransactions)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDeleteReleasesIdempotencyKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, ok, err := store.Create(ctx, CollectionTransactions, Document{"amount": "50"}, "key-1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Delete(ctx, CollectionTransactions, id))

	// A compensated write can be retried under the same key.
	_, ok, err = store.Create(ctx, CollectionTransactions, Document{"amount": "50"}, "key-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestQueryFilters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	seed := []Document{
		{"owner": "+1", "occurred_at": now.AddDate(0, 0, -2).Format(time.RFC3339)},
		{"owner": "+1", "occurred_at": now.AddDate(0, -2, 0).Format(time.RFC3339)},
		{"owner": "+2", "occurred_at": now.Format(time.RFC3339)},
	}
	for _, doc := range seed {
		_, _, err := store.Create(ctx, CollectionTransactions, doc, "")
		require.NoError(t, err)
	}

	docs, err := store.Query(ctx, CollectionTransactions, Eq("owner", "+1"))
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = store.Query(ctx, CollectionTransactions,
		Eq("owner", "+1"),
		Since("occurred_at", now.AddDate(0, 0, -7)),
	)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestUpdateMergesFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, _, err := store.Create(ctx, CollectionStock,
		Document{"name": "Brick", "quantity": 10, "unit": "bricks"}, "")
	require.NoError(t, err)

	require.NoError(t, store.Update(ctx, CollectionStock, id, Document{"quantity": 7}))

	doc, err := store.Get(ctx, CollectionStock, id)
	require.NoError(t, err)
	assert.Equal(t, float64(7), doc["quantity"])
	assert.Equal(t, "Brick", doc["name"], "untouched fields survive the merge")
}

func TestUpdateUnknownID(t *testing.T) {
	store := newTestStore(t)
	err := store.Update(context.Background(), CollectionStock, "nope", Document{"quantity": 1})
	assert.Error(t, err)
}
