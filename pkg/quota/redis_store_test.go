package quota_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/metaqueue/pkg/quota"
	"github.com/dmitrymomot/metaqueue/pkg/redis"
)

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	ctx := context.Background()
	client, err := redis.Connect(ctx, redis.Config{
		ConnectionURL:  url,
		RetryAttempts:  3,
		RetryInterval:  100 * time.Millisecond,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := quota.NewRedisStore(client)
	key := "metaqueue-test:" + uuid.NewString()
	t.Cleanup(func() { _ = store.Reset(context.Background(), key) })

	n, err := store.Count(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	b, err := quota.NewDailyBudget(store, quota.Config{DefaultLimit: 1, KeyPrefix: "metaqueue-test-" + uuid.NewString()})
	require.NoError(t, err)
	require.NoError(t, b.RecordUsage(ctx, "bulk_extract"))
	ok, err := b.CheckLimit(ctx, "bulk_extract")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, b.Reset(ctx, "bulk_extract"))

	require.NoError(t, store.Reset(ctx, key))
	n, err = store.Count(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, n)
}
