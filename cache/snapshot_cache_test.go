package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"werkzeugverwaltung/models"
	"werkzeugverwaltung/store"
)

// needs a disposable redis, e.g. TEST_REDIS_ADDR=localhost:6379
func newTestCache(t *testing.T) *SnapshotCache {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())

	c := NewSnapshotCache(rdb, time.Minute, "test-"+t.Name())
	t.Cleanup(func() { rdb.Del(context.Background(), c.key(), c.versionKey()) })
	return c
}

func TestSnapshotCache_PutGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, err := c.Get(ctx)
	assert.ErrorIs(t, err, ErrMiss)

	v, err := c.Version(ctx)
	require.NoError(t, err)
	snap := &store.Snapshot{Tools: []models.Tool{{ID: "aaaaaaaaaaaaaaaaaaaaaa01", Fields: models.ToolFields{Designation: models.Ptr("Leiter")}}}}
	require.NoError(t, c.Put(ctx, v, snap))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got.Tools, 1)
	assert.Equal(t, "Leiter", got.Tools[0].Fields.Name())
}

func TestSnapshotCache_InvalidateDropsStalePut(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	v, err := c.Version(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx))
	// fetched before the invalidation
	require.NoError(t, c.Put(ctx, v, &store.Snapshot{}))

	_, err = c.Get(ctx)
	assert.ErrorIs(t, err, ErrMiss)
}
