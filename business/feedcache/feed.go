package feedcache

import (
	"context"
	"fmt"
	"time"

	"mlFeedCache/domain"
	"mlFeedCache/internal/codec"
	redisrepo "mlFeedCache/internal/repository/redis"
	"mlFeedCache/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// AddUserCacheItems appends v1 candidates to a per-user feed. Score is
// wall-clock seconds at ingest; the feed trims to the per-user bound.
//
// Deprecated: producers should write v2 items via AddUserCacheItemsV2.
func (s *CacheService) AddUserCacheItems(ctx context.Context, key string, items []domain.PostItem) error {
	members, err := postMembers(items)
	if err != nil {
		return err
	}

	return s.addAndTrim(ctx, key, kindUserCache, members, redisrepo.MaxUserCacheLen)
}

// AddGlobalCacheItems appends v1 candidates to a global feed, trimming to
// the global bound.
//
// Deprecated: producers should write v2 items via AddGlobalCacheItemsV2.
func (s *CacheService) AddGlobalCacheItems(ctx context.Context, key string, items []domain.PostItem) error {
	members, err := postMembers(items)
	if err != nil {
		return err
	}

	return s.addAndTrim(ctx, key, kindGlobalCache, members, redisrepo.MaxGlobalCacheLen)
}

// AddUserCacheItemsV2 appends v2 candidates to a per-user feed.
func (s *CacheService) AddUserCacheItemsV2(ctx context.Context, key string, items []domain.PostItemV2) error {
	members, err := postMembersV2(items)
	if err != nil {
		return err
	}

	return s.addAndTrim(ctx, key, kindUserCache, members, redisrepo.MaxUserCacheLen)
}

// AddGlobalCacheItemsV2 appends v2 candidates to a global feed.
func (s *CacheService) AddGlobalCacheItemsV2(ctx context.Context, key string, items []domain.PostItemV2) error {
	members, err := postMembersV2(items)
	if err != nil {
		return err
	}

	return s.addAndTrim(ctx, key, kindGlobalCache, members, redisrepo.MaxGlobalCacheLen)
}

// GetCacheItems returns the [start, end] window of a v1 feed, newest first,
// skipping undecodable members. Filtering is the caller's responsibility.
func (s *CacheService) GetCacheItems(ctx context.Context, key string, start, end int64) ([]domain.PostItem, error) {
	raw, err := s.log.RevRange(ctx, key, start, end)
	if err != nil {
		return nil, err
	}

	items := make([]domain.PostItem, 0, len(raw))
	for _, member := range raw {
		item, ok := codec.DecodePostItemResilient([]byte(member))
		if !ok {
			metrics.CacheDecodeSkips.WithLabelValues("post_item").Inc()
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// GetCacheItemsV2 returns the [start, end] window of a v2 feed, newest
// first. Members with post ids that do not coerce to u64 are skipped.
func (s *CacheService) GetCacheItemsV2(ctx context.Context, key string, start, end int64) ([]domain.PostItemV2, error) {
	raw, err := s.log.RevRange(ctx, key, start, end)
	if err != nil {
		return nil, err
	}

	items := make([]domain.PostItemV2, 0, len(raw))
	for _, member := range raw {
		item, ok := codec.DecodePostItemV2Resilient([]byte(member))
		if !ok {
			metrics.CacheDecodeSkips.WithLabelValues("post_item_v2").Inc()
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// GetCacheItemsV3Resilient reads a feed window as v3 records; integer post
// ids coerce to strings and v1 nsfw probabilities threshold to the flag.
func (s *CacheService) GetCacheItemsV3Resilient(ctx context.Context, key string, start, end int64) ([]domain.PostItemV3, error) {
	raw, err := s.log.RevRange(ctx, key, start, end)
	if err != nil {
		return nil, err
	}

	items := make([]domain.PostItemV3, 0, len(raw))
	for _, member := range raw {
		item, ok := codec.DecodePostItemV3Resilient([]byte(member))
		if !ok {
			metrics.CacheDecodeSkips.WithLabelValues("post_item_v3").Inc()
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func (s *CacheService) GetCacheItemsLen(ctx context.Context, key string) (int64, error) {
	return s.log.Card(ctx, key)
}

func postMembers(items []domain.PostItem) ([]redis.Z, error) {
	score := float64(time.Now().Unix())

	members := make([]redis.Z, 0, len(items))
	for _, item := range items {
		payload, err := codec.Encode(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode post item: %w", err)
		}

		members = append(members, redis.Z{Score: score, Member: payload})
	}

	return members, nil
}

func postMembersV2(items []domain.PostItemV2) ([]redis.Z, error) {
	score := float64(time.Now().Unix())

	members := make([]redis.Z, 0, len(items))
	for _, item := range items {
		payload, err := codec.Encode(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode post item: %w", err)
		}

		members = append(members, redis.Z{Score: score, Member: payload})
	}

	return members, nil
}
