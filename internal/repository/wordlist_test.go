package repository

import (
	"context"
	"testing"
	"time"

	"github.com/atinyakov/LangHelper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wordStore interface {
	AddWord(ctx context.Context, userID int64, word string) (bool, error)
	ListWords(ctx context.Context, userID int64) ([]string, error)
	RemoveWord(ctx context.Context, userID int64, word string) (bool, error)
}

func TestWordListStores(t *testing.T) {
	stores := map[string]func(t *testing.T) wordStore{
		"sql":    func(t *testing.T) wordStore { return NewWordListRepository(setupTestDB(t)) },
		"memory": func(t *testing.T) wordStore { return NewMemoryWordList() },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			words, err := store.ListWords(ctx, 1)
			require.NoError(t, err)
			assert.NotNil(t, words)
			assert.Empty(t, words)

			added, err := store.AddWord(ctx, 1, "sol")
			require.NoError(t, err)
			assert.True(t, added)
			added, err = store.AddWord(ctx, 1, "luna")
			require.NoError(t, err)
			assert.True(t, added)
			added, err = store.AddWord(ctx, 1, "sol")
			require.NoError(t, err)
			assert.False(t, added, "duplicate add is reported, not an error")

			added, err = store.AddWord(ctx, 2, "sol")
			require.NoError(t, err)
			assert.True(t, added, "lists are per user")

			words, err = store.ListWords(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, []string{"sol", "luna"}, words)

			removed, err := store.RemoveWord(ctx, 1, "sol")
			require.NoError(t, err)
			assert.True(t, removed)
			removed, err = store.RemoveWord(ctx, 1, "sol")
			require.NoError(t, err)
			assert.False(t, removed)

			words, err = store.ListWords(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, []string{"luna"}, words)

			words, err = store.ListWords(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, []string{"sol"}, words)
		})
	}
}

func TestSessions(t *testing.T) {
	conn := setupTestDB(t)
	ana := createUser(t, conn, "ana")
	repo := NewSessionRepository(conn)
	ctx := context.Background()
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, models.Session{Token: "live", UserID: ana, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, models.Session{Token: "stale", UserID: ana, ExpiresAt: now.Add(-time.Hour)}))

	userID, ok, err := repo.Lookup(ctx, "live", now)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ana, userID)

	_, ok, err = repo.Lookup(ctx, "stale", now)
	require.NoError(t, err)
	assert.False(t, ok, "expired sessions do not resolve")

	_, ok, err = repo.Lookup(ctx, "unknown", now)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Delete(ctx, "live"))
	_, ok, err = repo.Lookup(ctx, "live", now)
	require.NoError(t, err)
	assert.False(t, ok)
}
