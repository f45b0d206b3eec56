// Package feedcache implements the Redis-backed ML feed cache: per-user
// engagement history, per-user and global candidate feeds, and the global
// engagement buffer drained by the recommender.
package feedcache

import (
	"context"
	"time"

	redisrepo "mlFeedCache/internal/repository/redis"
	"mlFeedCache/pkg/logger"
	"mlFeedCache/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// Set kinds used as metric labels.
const (
	kindWatchHistory   = "watch_history"
	kindSuccessHistory = "success_history"
	kindPlainPost      = "plain_post"
	kindUserCache      = "user_cache"
	kindGlobalCache    = "global_cache"
	kindBuffer         = "buffer"
)

// CacheService owns all cache set families on the primary store and mirrors
// v2 history writes and user deletions to an optional secondary store. The
// mirror is best-effort: failures are logged, never surfaced.
type CacheService struct {
	log       *redisrepo.ScoredLog
	memoryLog *redisrepo.ScoredLog
}

// NewCacheService builds the service. memory may be nil to disable mirroring.
func NewCacheService(primary, memory redis.UniversalClient) *CacheService {
	s := &CacheService{
		log: redisrepo.NewScoredLog(primary),
	}
	if memory != nil {
		s.memoryLog = redisrepo.NewScoredLog(memory)
	}

	return s
}

// addAndTrim inserts the members then evicts lowest-scored excess. The trim
// is a separate command; readers may transiently see above the bound.
func (s *CacheService) addAndTrim(ctx context.Context, key, kind string, members []redis.Z, bound int64) error {
	if len(members) == 0 {
		return nil
	}

	start := time.Now()

	if err := s.log.AddMany(ctx, key, members); err != nil {
		return err
	}

	trimmed, err := s.log.TrimToBound(ctx, key, bound)
	if err != nil {
		return err
	}

	metrics.CacheAddLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	metrics.CacheItemsAdded.WithLabelValues(kind).Add(float64(len(members)))
	metrics.CacheItemsTrimmed.WithLabelValues(kind).Add(float64(trimmed))

	return nil
}

// mirrorAdd replays an add-and-trim on the secondary store without blocking
// the caller.
func (s *CacheService) mirrorAdd(key string, members []redis.Z, bound int64) {
	if s.memoryLog == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.memoryLog.AddMany(ctx, key, members); err != nil {
			logger.Error("failed to add items to memory store", "key", key, "error", err)
			return
		}

		if _, err := s.memoryLog.TrimToBound(ctx, key, bound); err != nil {
			logger.Error("failed to trim memory store", "key", key, "error", err)
		}
	}()
}

// mirrorDelete replays a batched key deletion on the secondary store.
func (s *CacheService) mirrorDelete(keys []string) {
	if s.memoryLog == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.memoryLog.DeleteKeys(ctx, keys); err != nil {
			logger.Error("failed to delete keys from memory store", "error", err)
		}
	}()
}
