package service_test

import (
	"context"
	"testing"

	"github.com/atinyakov/LangHelper/internal/models"
	"github.com/atinyakov/LangHelper/internal/repository"
	"github.com/atinyakov/LangHelper/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordListService(t *testing.T) {
	svc := service.NewWordListService(repository.NewMemoryWordList())
	ctx := context.Background()

	word, added, err := svc.Add(ctx, 1, "  sol ")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "sol", word)

	_, added, err = svc.Add(ctx, 1, "sol")
	require.NoError(t, err)
	assert.False(t, added)

	words, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"sol"}, words)

	_, removed, err := svc.Remove(ctx, 1, "luna")
	require.NoError(t, err)
	assert.False(t, removed)

	_, removed, err = svc.Remove(ctx, 1, " sol")
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestWordListService_Validation(t *testing.T) {
	svc := service.NewWordListService(repository.NewMemoryWordList())
	ctx := context.Background()

	_, _, err := svc.Add(ctx, 0, "sol")
	assert.ErrorIs(t, err, models.ErrMissingUser)
	_, _, err = svc.Add(ctx, 1, "   ")
	assert.ErrorIs(t, err, models.ErrEmptyWord)
	_, _, err = svc.Remove(ctx, -1, "sol")
	assert.ErrorIs(t, err, models.ErrMissingUser)
	_, err = svc.List(ctx, 0)
	assert.ErrorIs(t, err, models.ErrMissingUser)
}
