package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	isNew, err := store.MarkProcessed(ctx, "key-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, "key-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, isNew, "second mark of the same key")

	seen, err := store.IsProcessed(ctx, "key-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestInMemoryIdempotencyStore_Expiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	_, err := store.MarkProcessed(ctx, "key", time.Minute)
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	seen, err := store.IsProcessed(ctx, "key")
	require.NoError(t, err)
	assert.False(t, seen)

	isNew, err := store.MarkProcessed(ctx, "key", time.Minute)
	require.NoError(t, err)
	assert.True(t, isNew, "expired keys can be marked again")

	clock = clock.Add(2 * time.Minute)
	store.cleanup()
	assert.Zero(t, store.Size())
}

func TestInMemoryIdempotencyStore_Release(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, _ = store.MarkProcessed(ctx, "key", time.Hour)
	require.NoError(t, store.Release(ctx, "key"))

	isNew, err := store.MarkProcessed(ctx, "key", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew)
}

func TestInMemoryIdempotencyStore_ConcurrentMark(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.MarkProcessed(context.Background(), "shared", time.Hour); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, winners.Load())
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
