package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
)

func TestAccountStore_UpsertGetRemove(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	account := domain.Account{Email: "user@example.com", AccountType: "user"}
	require.NoError(t, store.Upsert(ctx, account))

	got, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, account, *got)

	removed, err := store.Remove(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = store.Get(ctx, "user@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	removed, err = store.Remove(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAccountStore_ListInsertionOrder(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	emails := []string{"b@example.com", "a@example.com", "c@example.com"}
	for _, email := range emails {
		require.NoError(t, store.Upsert(ctx, domain.Account{Email: email, AccountType: "user"}))
	}
	require.NoError(t, store.Upsert(ctx, domain.Account{Email: "a@example.com", AccountType: "work"}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, email := range emails {
		assert.Equal(t, email, list[i].Email)
	}
}

func TestAccountStore_ListReturnsCopy(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, domain.Account{Email: "user@example.com", AccountType: "user"}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	list[0].Email = "mutated@example.com"

	got, err := store.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", got.Email)
}

func TestCredentialsStore_SaveLoadDelete(t *testing.T) {
	store := NewCredentialsStore()
	ctx := context.Background()

	creds := domain.Credentials{
		AccessToken: "token",
		Expiry:      time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, "User@Example.COM", creds))

	got, err := store.Load(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "token", got.AccessToken)

	deleted, err := store.Delete(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.Load(ctx, "user@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	deleted, err = store.Delete(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, deleted)
}
