package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tumaini/bizmanager/internal/adapters/memory"
	"github.com/tumaini/bizmanager/pkg/domain"
)

func TestWithLockSerializesSameSession(t *testing.T) {
	m := NewManager(memory.NewStore())
	ctx := context.Background()

	var inCritical bool
	var overlapped bool
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.WithLock(ctx, "same-id", func(ctx context.Context) error {
				if inCritical {
					overlapped = true
				}
				inCritical = true
				counter++
				inCritical = false
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.False(t, overlapped, "two holders entered the critical section")
	assert.Equal(t, 50, counter)
}

func TestWithLockDifferentSessionsDoNotBlock(t *testing.T) {
	m := NewManager(memory.NewStore())
	ctx := context.Background()

	err := m.WithLock(ctx, "a", func(ctx context.Context) error {
		// Holding a must not block b.
		done := make(chan error, 1)
		go func() {
			done <- m.WithLock(ctx, "b", func(context.Context) error { return nil })
		}()
		select {
		case err := <-done:
			return err
		case <-time.After(2 * time.Second):
			t.Fatal("lock for a different session id blocked")
			return nil
		}
	})
	require.NoError(t, err)
}

func TestLockMapDoesNotLeak(t *testing.T) {
	m := NewManager(memory.NewStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%5))
			_ = m.WithLock(ctx, id, func(context.Context) error { return nil })
		}(i)
	}
	wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.locks, "lock entries must be reclaimed at refcount zero")
}

func TestLoadOrStartCreatesAtStart(t *testing.T) {
	store := memory.NewStore()
	m := NewManager(store)
	ctx := context.Background()

	sess, err := m.LoadOrStart(ctx, "fresh", "+254700000001")
	require.NoError(t, err)
	assert.Equal(t, domain.StateStart, sess.State)
	assert.Equal(t, "+254700000001", sess.Phone)

	// The fresh session was persisted, not just returned.
	loaded, err := store.Load(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, domain.StateStart, loaded.State)
}

func TestLoadOrStartReturnsExisting(t *testing.T) {
	store := memory.NewStore()
	m := NewManager(store)
	ctx := context.Background()

	sess := domain.NewSession("known", "+254700000001")
	sess.State = domain.StateMainMenu
	require.NoError(t, store.Save(ctx, sess))

	got, err := m.LoadOrStart(ctx, "known", "+254700000001")
	require.NoError(t, err)
	assert.Equal(t, domain.StateMainMenu, got.State)
}

func TestSaveRefreshesLastSeen(t *testing.T) {
	store := memory.NewStore()
	m := NewManager(store)
	ctx := context.Background()

	sess := domain.NewSession("ts", "+254700000001")
	sess.LastSeen = time.Now().Add(-time.Hour)
	require.NoError(t, m.Save(ctx, sess))

	loaded, err := store.Load(ctx, "ts")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), loaded.LastSeen, time.Minute)
}
