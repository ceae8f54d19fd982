package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tumaini/bizmanager/internal/adapters/docstore"
	"github.com/tumaini/bizmanager/internal/adapters/memory"
	"github.com/tumaini/bizmanager/internal/dialog"
	"github.com/tumaini/bizmanager/internal/session"
	"github.com/tumaini/bizmanager/pkg/domain"
)

func newTestService(t *testing.T) (*Service, *memory.Store, *docstore.Store) {
	t.Helper()

	store, err := docstore.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	repo := docstore.NewRepository(store)

	sessions := memory.NewStore()
	manager := session.NewManager(sessions)
	engine := dialog.New(repo)

	return New(manager, engine, repo), sessions, store
}

func TestHandleFirstRequestStartsConversation(t *testing.T) {
	svc, _, _ := newTestService(t)

	body, failed := svc.Handle(context.Background(), "s1", "+254700000001", "")
	assert.False(t, failed)
	assert.True(t, strings.HasPrefix(body, "CON "))
	assert.Contains(t, body, "Welcome to BizManager!")
}

func TestHandleRegistrationOverCumulativeText(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	// The gateway accumulates keystrokes into the text field.
	steps := []string{"", "1", "1*Alice", "1*Alice*Retail", "1*Alice*Retail*Nairobi"}
	var body string
	for _, text := range steps {
		var failed bool
		body, failed = svc.Handle(ctx, "s1", "+254700000001", text)
		require.False(t, failed, "step %q", text)
	}
	assert.Contains(t, body, "Registration complete, Alice!")

	// The phone is now registered; a new session goes to the main menu.
	body, failed := svc.Handle(ctx, "s2", "+254700000001", "")
	assert.False(t, failed)
	assert.Contains(t, body, "Hi Alice!")
}

func TestHandleTerminalReplyDropsSession(t *testing.T) {
	svc, sessions, _ := newTestService(t)
	ctx := context.Background()

	_, failed := svc.Handle(ctx, "s1", "+254700000001", "")
	require.False(t, failed)

	// "0" on the registration menu quits.
	body, failed := svc.Handle(ctx, "s1", "+254700000001", "0")
	require.False(t, failed)
	assert.True(t, strings.HasPrefix(body, "END "))

	_, err := sessions.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestHandleInternalFailureReturnsGenericEnd(t *testing.T) {
	svc, _, store := newTestService(t)

	// Killing the database makes the registration fact lookup fail.
	require.NoError(t, store.Close())

	body, failed := svc.Handle(context.Background(), "s1", "+254700000001", "")
	assert.True(t, failed)
	assert.Equal(t, "END Something went wrong. Please try again later.", body)
	assert.NotContains(t, body, "sql", "internal detail must not leak to the handset")
}

func TestHandleConcurrentDuplicateDeliveries(t *testing.T) {
	svc, sessions, _ := newTestService(t)
	ctx := context.Background()

	done := make(chan string, 2)
	for i := 0; i < 2; i++ {
		go func() {
			body, _ := svc.Handle(ctx, "dup", "+254700000001", "")
			done <- body
		}()
	}
	first, second := <-done, <-done

	// Both deliveries serialized on the session lock; each got a full,
	// well-formed reply and exactly one session record exists.
	assert.True(t, strings.HasPrefix(first, "CON "))
	assert.True(t, strings.HasPrefix(second, "CON "))

	ids, err := sessions.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"dup"}, ids)
}
