package cart

import (
	"context"
	"os"
	"testing"
	"time"

	"recipe-matcher/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, RedisOptions{Addr: "127.0.0.1:1", TTL: time.Minute})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrCartStore)
}

// 需要 redis：REDIS_TEST_ADDR=localhost:6379 go test ./internal/core/cart/...
func TestRedisStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	store, err := NewRedisStore(ctx, RedisOptions{Addr: addr, TTL: time.Minute})
	require.NoError(t, err)
	defer store.Close()

	id := common.GenerateUUID()
	defer store.Delete(ctx, id)

	c, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	require.NoError(t, store.Save(ctx, id, AddOrIncrement(AddOrIncrement(New(), 1), 1)))
	c, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Quantity(1))

	require.NoError(t, store.Delete(ctx, id))
	c, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	stats := store.Stats()
	assert.Contains(t, stats, "total_conns")
	assert.Contains(t, stats, "hits")
}
