package repository

import (
	"context"
	"testing"
	"time"

	"github.com/benx421/retail-bank/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyRepository_Store_And_Get(t *testing.T) {
	database := setupTestDB(t)
	repo := NewIdempotencyRepository(database)
	ctx := context.Background()

	tests := []struct {
		name        string
		key         string
		requestPath string
		body        string
		status      int
	}{
		{
			name:        "store and retrieve simple key",
			key:         "test-key-1",
			requestPath: "/api/v1/accounts",
			status:      201,
			body:        `{"account_number":"SAV1001"}`,
		},
		{
			name:        "same key on a different path",
			key:         "test-key-1",
			requestPath: "/api/v1/transfers",
			status:      200,
			body:        `{"status":"CLOSED"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Store(ctx, &models.IdempotencyKey{
				Key:            tt.key,
				RequestPath:    tt.requestPath,
				ResponseStatus: tt.status,
				ResponseBody:   tt.body,
			})
			require.NoError(t, err)

			retrieved, err := repo.Get(ctx, tt.key, tt.requestPath)
			require.NoError(t, err)
			require.NotNil(t, retrieved)

			assert.Equal(t, tt.status, retrieved.ResponseStatus)
			assert.Equal(t, tt.body, retrieved.ResponseBody)
		})
	}
}

func TestIdempotencyRepository_FirstWriteWins(t *testing.T) {
	database := setupTestDB(t)
	repo := NewIdempotencyRepository(database)
	ctx := context.Background()

	require.NoError(t, repo.Store(ctx, &models.IdempotencyKey{Key: "k", RequestPath: "/p", ResponseStatus: 200, ResponseBody: "first"}))
	require.NoError(t, repo.Store(ctx, &models.IdempotencyKey{Key: "k", RequestPath: "/p", ResponseStatus: 500, ResponseBody: "second"}))

	got, err := repo.Get(ctx, "k", "/p")
	require.NoError(t, err)
	assert.Equal(t, "first", got.ResponseBody)
}

func TestIdempotencyRepository_GetMissing(t *testing.T) {
	database := setupTestDB(t)
	repo := NewIdempotencyRepository(database)

	got, err := repo.Get(context.Background(), "missing", "/api/v1/accounts")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIdempotencyRepository_DeleteOlderThan(t *testing.T) {
	database := setupTestDB(t)
	repo := NewIdempotencyRepository(database)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Store(ctx, &models.IdempotencyKey{Key: "old", RequestPath: "/p", ResponseStatus: 200, ResponseBody: "{}", CreatedAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, repo.Store(ctx, &models.IdempotencyKey{Key: "new", RequestPath: "/p", ResponseStatus: 200, ResponseBody: "{}", CreatedAt: now}))

	n, err := repo.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	old, err := repo.Get(ctx, "old", "/p")
	require.NoError(t, err)
	assert.Nil(t, old)
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2024, 5, 17, 15, 4, 5, 0, time.UTC)
	start, end := DayBounds(at)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 5, 18, 0, 0, 0, 0, time.UTC), end)
}
