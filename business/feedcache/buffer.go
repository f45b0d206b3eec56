package feedcache

import (
	"context"
	"fmt"

	"mlFeedCache/domain"
	"mlFeedCache/internal/codec"
	redisrepo "mlFeedCache/internal/repository/redis"
	"mlFeedCache/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// AddUserBufferItems pushes v1 engagement events onto the buffer. The buffer
// is never trimmed; the recommender drains it by timestamp range.
//
// Deprecated: producers should write v2 items via AddUserBufferItemsV2.
func (s *CacheService) AddUserBufferItems(ctx context.Context, items []domain.BufferItem) error {
	members := make([]redis.Z, 0, len(items))
	for _, item := range items {
		payload, err := codec.Encode(item)
		if err != nil {
			return fmt.Errorf("failed to encode buffer item: %w", err)
		}

		members = append(members, redis.Z{
			Score:  float64(item.Timestamp.UnixSecs()),
			Member: payload,
		})
	}

	if err := s.log.AddMany(ctx, redisrepo.UserHotornotBufferKey, members); err != nil {
		return err
	}

	metrics.CacheItemsAdded.WithLabelValues(kindBuffer).Add(float64(len(members)))

	return nil
}

// AddUserBufferItemsV2 pushes v2 engagement events onto the buffer.
func (s *CacheService) AddUserBufferItemsV2(ctx context.Context, items []domain.BufferItemV2) error {
	members := make([]redis.Z, 0, len(items))
	for _, item := range items {
		payload, err := codec.Encode(item)
		if err != nil {
			return fmt.Errorf("failed to encode buffer item: %w", err)
		}

		members = append(members, redis.Z{
			Score:  float64(item.Timestamp.UnixSecs()),
			Member: payload,
		})
	}

	if err := s.log.AddMany(ctx, redisrepo.UserHotornotBufferKeyV2, members); err != nil {
		return err
	}

	metrics.CacheItemsAdded.WithLabelValues(kindBuffer).Add(float64(len(members)))

	return nil
}

// AddUserBufferItemsV3 pushes v3 engagement events onto the v3 buffer.
func (s *CacheService) AddUserBufferItemsV3(ctx context.Context, items []domain.BufferItemV3) error {
	members := make([]redis.Z, 0, len(items))
	for _, item := range items {
		payload, err := codec.Encode(item)
		if err != nil {
			return fmt.Errorf("failed to encode buffer item: %w", err)
		}

		members = append(members, redis.Z{
			Score:  float64(item.Timestamp.UnixSecs()),
			Member: payload,
		})
	}

	if err := s.log.AddMany(ctx, redisrepo.UserHotornotBufferKeyV3, members); err != nil {
		return err
	}

	metrics.CacheItemsAdded.WithLabelValues(kindBuffer).Add(float64(len(members)))

	return nil
}

// GetUserBufferItemsByTimestampV2 returns buffer events with timestamp in
// [0, timestampSecs], ascending, without removing them.
func (s *CacheService) GetUserBufferItemsByTimestampV2(ctx context.Context, timestampSecs uint64) ([]domain.BufferItemV2, error) {
	return s.getUserBufferItemsByTimestampImplV2(ctx, redisrepo.UserHotornotBufferKeyV2, timestampSecs)
}

func (s *CacheService) getUserBufferItemsByTimestampImplV2(ctx context.Context, key string, timestampSecs uint64) ([]domain.BufferItemV2, error) {
	raw, err := s.log.RangeByScore(ctx, key, timestampSecs)
	if err != nil {
		return nil, err
	}

	return decodeBufferItemsV2(raw), nil
}

// RemoveUserBufferItemsByTimestampV2 removes buffer events with timestamp in
// [0, timestampSecs] and returns the removed count. Callers pairing this
// with the get must use the same bound and tolerate at-least-once delivery.
func (s *CacheService) RemoveUserBufferItemsByTimestampV2(ctx context.Context, timestampSecs uint64) (uint64, error) {
	return s.removeUserBufferItemsByTimestampImplV2(ctx, redisrepo.UserHotornotBufferKeyV2, timestampSecs)
}

func (s *CacheService) removeUserBufferItemsByTimestampImplV2(ctx context.Context, key string, timestampSecs uint64) (uint64, error) {
	return s.log.RemoveRangeByScore(ctx, key, timestampSecs)
}

// DrainUserBufferItemsV2 fetches and removes buffer events up to the bound
// in a single store-side script, so no event inserted between fetch and
// removal is lost.
func (s *CacheService) DrainUserBufferItemsV2(ctx context.Context, timestampSecs uint64) ([]domain.BufferItemV2, error) {
	raw, err := s.log.Drain(ctx, redisrepo.UserHotornotBufferKeyV2, timestampSecs)
	if err != nil {
		return nil, err
	}

	items := decodeBufferItemsV2(raw)
	metrics.BufferItemsDrained.Add(float64(len(items)))

	return items, nil
}

// GetUserBufferItemsByTimestampV3 reads both the v2 and v3 buffers as v3
// records, so events pushed by v2 producers stay visible. Post ids written
// as integers coerce to strings.
func (s *CacheService) GetUserBufferItemsByTimestampV3(ctx context.Context, timestampSecs uint64) ([]domain.BufferItemV3, error) {
	var items []domain.BufferItemV3

	for _, key := range []string{redisrepo.UserHotornotBufferKeyV2, redisrepo.UserHotornotBufferKeyV3} {
		raw, err := s.log.RangeByScore(ctx, key, timestampSecs)
		if err != nil {
			return nil, err
		}

		for _, member := range raw {
			item, ok := codec.DecodeBufferItemV3Resilient([]byte(member))
			if !ok {
				metrics.CacheDecodeSkips.WithLabelValues("buffer_item_v3").Inc()
				continue
			}
			items = append(items, item)
		}
	}

	return items, nil
}

func decodeBufferItemsV2(raw []string) []domain.BufferItemV2 {
	items := make([]domain.BufferItemV2, 0, len(raw))
	for _, member := range raw {
		item, ok := codec.DecodeBufferItemV2Resilient([]byte(member))
		if !ok {
			metrics.CacheDecodeSkips.WithLabelValues("buffer_item_v2").Inc()
			continue
		}
		items = append(items, item)
	}

	return items
}
