package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"projectpulse/internal/model"
	"projectpulse/pkg/metrics"
)

// bucket width for the time component of cache keys; snapshots depend on
// "now", so identical inputs share a key only within one bucket.
const timeBucket = 5 * time.Minute

// SnapshotCache keeps computed snapshots in redis, keyed by project,
// content hash and time bucket. The engine is pure, so a key collision can
// only return the byte-identical snapshot. The cache fails open: redis
// errors degrade to recomputation, never to a request failure.
type SnapshotCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewSnapshotCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *SnapshotCache {
	return &SnapshotCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// ContentHash fingerprints the engine inputs. Any change to the project,
// its issues or its milestones changes the hash.
func ContentHash(p model.Project, issues []model.Issue, milestones []model.Milestone) uint64 {
	h := fnv.New64a()
	enc := json.NewEncoder(h)
	_ = enc.Encode(p)
	_ = enc.Encode(issues)
	_ = enc.Encode(milestones)
	return h.Sum64()
}

// Key builds the cache key for one (inputs, now) pair.
func Key(projectID int, contentHash uint64, now time.Time) string {
	return fmt.Sprintf("health:%d:%x:%d", projectID, contentHash, now.Truncate(timeBucket).Unix())
}

func (c *SnapshotCache) Get(ctx context.Context, key string) (*model.Snapshot, bool) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.IncrementSnapshotCache("miss")
		return nil, false
	}
	if err != nil {
		metrics.IncrementSnapshotCache("error")
		c.logger.Warn("Snapshot cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		metrics.IncrementSnapshotCache("error")
		c.logger.Warn("Snapshot cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		c.rdb.Del(ctx, key)
		return nil, false
	}

	metrics.IncrementSnapshotCache("hit")
	return &snap, true
}

func (c *SnapshotCache) Set(ctx context.Context, key string, snap model.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		c.logger.Warn("Failed to marshal snapshot for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Snapshot cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateProject drops every cached snapshot for a project. Called from
// the project.updated consumer.
func (c *SnapshotCache) InvalidateProject(ctx context.Context, projectID int) error {
	pattern := fmt.Sprintf("health:%d:*", projectID)

	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan snapshot keys: %w", err)
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete snapshot keys: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
