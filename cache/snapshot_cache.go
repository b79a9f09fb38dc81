// Package cache keeps the last fetched record snapshot in redis so dashboard
// reads inside the TTL skip the five list calls.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"werkzeugverwaltung/store"
)

// ErrMiss is returned by Get when no snapshot is cached.
var ErrMiss = errors.New("snapshot not cached")

type SnapshotCache struct {
	rdb       redis.Cmdable
	ttl       time.Duration
	namespace string
}

func NewSnapshotCache(rdb redis.Cmdable, ttl time.Duration, namespace string) *SnapshotCache {
	if namespace == "" {
		namespace = "default"
	}
	return &SnapshotCache{rdb: rdb, ttl: ttl, namespace: namespace}
}

func (c *SnapshotCache) key() string        { return fmt.Sprintf("wz:snapshot:%s", c.namespace) }
func (c *SnapshotCache) versionKey() string { return fmt.Sprintf("wz:snapshot_version:%s", c.namespace) }

type entry struct {
	Version  int64           `json:"v"`
	Snapshot *store.Snapshot `json:"snap"`
}

func (c *SnapshotCache) Get(ctx context.Context) (*store.Snapshot, error) {
	pipe := c.rdb.TxPipeline()
	blob := pipe.Get(ctx, c.key())
	ver := pipe.Get(ctx, c.versionKey())
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	b, err := blob.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var e entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	current, err := ver.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	// written before a later invalidation
	if e.Version != current || e.Snapshot == nil {
		return nil, ErrMiss
	}
	return e.Snapshot, nil
}

// Version is the invalidation counter; pass it to Put so a snapshot fetched
// before a concurrent mutation is not stored as fresh.
func (c *SnapshotCache) Version(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *SnapshotCache) Put(ctx context.Context, version int64, snap *store.Snapshot) error {
	b, err := json.Marshal(entry{Version: version, Snapshot: snap})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(), b, c.ttl).Err()
}

func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, c.key())
	pipe.Incr(ctx, c.versionKey())
	_, err := pipe.Exec(ctx)
	return err
}
