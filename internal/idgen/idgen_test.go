package idgen

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/benx421/retail-bank/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGenerator_SeedsOnceFromStore(t *testing.T) {
	store := mocks.NewMockTransactionRepository(t)
	store.On("MaxTransactionID", mock.Anything).Return(int64(41), nil).Once()

	gen := New(store)
	first, err := gen.Next(context.Background())
	require.NoError(t, err)
	second, err := gen.Next(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(42), first)
	assert.Equal(t, int64(43), second)
}

func TestGenerator_RetriesFailedSeed(t *testing.T) {
	store := mocks.NewMockTransactionRepository(t)
	store.On("MaxTransactionID", mock.Anything).Return(int64(0), errors.New("connection refused")).Once()
	store.On("MaxTransactionID", mock.Anything).Return(int64(7), nil).Once()

	gen := New(store)
	_, err := gen.Next(context.Background())
	require.Error(t, err)

	id, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)
}

func TestGenerator_ConcurrentIDsAreUnique(t *testing.T) {
	store := mocks.NewMockTransactionRepository(t)
	store.On("MaxTransactionID", mock.Anything).Return(int64(0), nil).Once()
	gen := New(store)

	const workers, perWorker = 8, 50
	var (
		mu   sync.Mutex
		seen = make(map[int64]bool)
		wg   sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				id, err := gen.Next(context.Background())
				assert.NoError(t, err)
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
