package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore needs a live redis; set TEST_REDIS_ADDR to run these.
func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	require.NoError(t, rdb.Ping(context.Background()).Err())
	return NewStore(rdb, "sunrinpass-test:", ttl)
}

func TestStoreSaveLoad(t *testing.T) {
	store := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "state-1", "pending"))

	value, err := store.Load(ctx, "state-1")
	require.NoError(t, err)
	assert.Equal(t, "pending", value)

	require.NoError(t, store.Delete(ctx, "state-1"))
	_, err = store.Load(ctx, "state-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreConsumeIsSingleUse(t *testing.T) {
	store := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "state-2", "pending"))

	value, err := store.Consume(ctx, "state-2")
	require.NoError(t, err)
	assert.Equal(t, "pending", value)

	_, err = store.Consume(ctx, "state-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreKeysExpire(t *testing.T) {
	store := newTestStore(t, time.Second)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "state-3", "pending"))
	time.Sleep(1500 * time.Millisecond)

	_, err := store.Load(ctx, "state-3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreUnknownKey(t *testing.T) {
	store := newTestStore(t, time.Minute)

	_, err := store.Load(context.Background(), "never-saved")
	assert.ErrorIs(t, err, ErrNotFound)
}
