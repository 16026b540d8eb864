package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placeradar/backend/internal/adapters/cache"
)

func TestMemoryAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get round trip", func(t *testing.T) {
		adapter, err := cache.NewMemoryAdapter(16)
		require.NoError(t, err)

		require.NoError(t, adapter.Set(ctx, "key", []byte("value"), 60))

		got, err := adapter.Get(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, []byte("value"), got)

		exists, err := adapter.Exists(ctx, "key")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("missing keys error", func(t *testing.T) {
		adapter, err := cache.NewMemoryAdapter(16)
		require.NoError(t, err)

		_, err = adapter.Get(ctx, "absent")
		assert.Error(t, err)

		exists, err := adapter.Exists(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("expired entries are gone", func(t *testing.T) {
		adapter, err := cache.NewMemoryAdapter(16)
		require.NoError(t, err)

		require.NoError(t, adapter.Set(ctx, "ttl", []byte("v"), 1))
		time.Sleep(1100 * time.Millisecond)

		_, err = adapter.Get(ctx, "ttl")
		assert.Error(t, err)
	})

	t.Run("delete removes a key", func(t *testing.T) {
		adapter, err := cache.NewMemoryAdapter(16)
		require.NoError(t, err)

		require.NoError(t, adapter.Set(ctx, "key", []byte("v"), 60))
		require.NoError(t, adapter.Delete(ctx, "key"))

		_, err = adapter.Get(ctx, "key")
		assert.Error(t, err)
	})

	t.Run("delete pattern removes matching keys only", func(t *testing.T) {
		adapter, err := cache.NewMemoryAdapter(16)
		require.NoError(t, err)

		require.NoError(t, adapter.Set(ctx, "http:cache:places:7:aaa", []byte("a"), 60))
		require.NoError(t, adapter.Set(ctx, "http:cache:places:7:bbb", []byte("b"), 60))
		require.NoError(t, adapter.Set(ctx, "http:cache:places:8:ccc", []byte("c"), 60))

		require.NoError(t, adapter.DeletePattern(ctx, "http:cache:places:7:*"))

		_, err = adapter.Get(ctx, "http:cache:places:7:aaa")
		assert.Error(t, err)
		_, err = adapter.Get(ctx, "http:cache:places:7:bbb")
		assert.Error(t, err)
		_, err = adapter.Get(ctx, "http:cache:places:8:ccc")
		assert.NoError(t, err)
	})
}
