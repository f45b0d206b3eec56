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

// AddUserWatchHistoryItems appends v1 watch events under the given key.
//
// Deprecated: producers should write v2 items via AddUserWatchHistoryItemsV2.
func (s *CacheService) AddUserWatchHistoryItems(ctx context.Context, key string, items []domain.HistoryItem) error {
	members, err := historyMembers(items)
	if err != nil {
		return err
	}

	return s.addAndTrim(ctx, key, kindWatchHistory, members, redisrepo.MaxWatchHistoryCacheLen)
}

// AddUserWatchHistoryItemsV2 appends v2 watch events, trims to the watch
// bound and mirrors the write to the secondary store.
func (s *CacheService) AddUserWatchHistoryItemsV2(ctx context.Context, key string, items []domain.HistoryItemV2) error {
	members, err := historyMembersV2(items)
	if err != nil {
		return err
	}

	if err := s.addAndTrim(ctx, key, kindWatchHistory, members, redisrepo.MaxWatchHistoryCacheLen); err != nil {
		return err
	}

	s.mirrorAdd(key, members, redisrepo.MaxWatchHistoryCacheLen)

	return nil
}

// AddUserSuccessHistoryItems appends v1 success events under the given key.
//
// Deprecated: producers should write v2 items via AddUserSuccessHistoryItemsV2.
func (s *CacheService) AddUserSuccessHistoryItems(ctx context.Context, key string, items []domain.HistoryItem) error {
	members, err := historyMembers(items)
	if err != nil {
		return err
	}

	return s.addAndTrim(ctx, key, kindSuccessHistory, members, redisrepo.MaxSuccessHistoryCacheLen)
}

// AddUserSuccessHistoryItemsV2 appends v2 success events, trims to the
// success bound and mirrors the write to the secondary store.
func (s *CacheService) AddUserSuccessHistoryItemsV2(ctx context.Context, key string, items []domain.HistoryItemV2) error {
	members, err := historyMembersV2(items)
	if err != nil {
		return err
	}

	if err := s.addAndTrim(ctx, key, kindSuccessHistory, members, redisrepo.MaxSuccessHistoryCacheLen); err != nil {
		return err
	}

	s.mirrorAdd(key, members, redisrepo.MaxSuccessHistoryCacheLen)

	return nil
}

// GetHistoryItems returns the [start, end] window of v1 history, newest
// first. Members that fail resilient decoding are skipped silently.
func (s *CacheService) GetHistoryItems(ctx context.Context, key string, start, end int64) ([]domain.HistoryItem, error) {
	raw, err := s.log.RevRange(ctx, key, start, end)
	if err != nil {
		return nil, err
	}

	items := make([]domain.HistoryItem, 0, len(raw))
	for _, member := range raw {
		item, ok := codec.DecodeHistoryItemResilient([]byte(member))
		if !ok {
			metrics.CacheDecodeSkips.WithLabelValues("history_item").Inc()
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// GetHistoryItemsV2 returns the [start, end] window of v2 history, newest
// first, skipping undecodable members.
func (s *CacheService) GetHistoryItemsV2(ctx context.Context, key string, start, end int64) ([]domain.HistoryItemV2, error) {
	raw, err := s.log.RevRange(ctx, key, start, end)
	if err != nil {
		return nil, err
	}

	items := make([]domain.HistoryItemV2, 0, len(raw))
	for _, member := range raw {
		item, ok := codec.DecodeHistoryItemV2Resilient([]byte(member))
		if !ok {
			metrics.CacheDecodeSkips.WithLabelValues("history_item_v2").Inc()
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// GetWatchHistoryItemsV3Resilient reads a history window as v3 records.
// Integer post ids written by older producers coerce to strings.
func (s *CacheService) GetWatchHistoryItemsV3Resilient(ctx context.Context, key string, start, end int64) ([]domain.HistoryItemV3, error) {
	raw, err := s.log.RevRange(ctx, key, start, end)
	if err != nil {
		return nil, err
	}

	items := make([]domain.HistoryItemV3, 0, len(raw))
	for _, member := range raw {
		item, ok := codec.DecodeHistoryItemV3Resilient([]byte(member))
		if !ok {
			metrics.CacheDecodeSkips.WithLabelValues("history_item_v3").Inc()
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func (s *CacheService) GetHistoryItemsLen(ctx context.Context, key string) (int64, error) {
	return s.log.Card(ctx, key)
}

// AddUserHistoryPlainItems stores the v1 identifying tuples of the given
// history items. Score is the raw event timestamp in seconds.
//
// Deprecated: producers should write v2 items via AddUserHistoryPlainItemsV2.
func (s *CacheService) AddUserHistoryPlainItems(ctx context.Context, key string, items []domain.HistoryItem) error {
	members := make([]redis.Z, 0, len(items))
	for _, item := range items {
		payload, err := codec.Encode(domain.PlainPostItem{
			CanisterID: item.CanisterID,
			PostID:     item.PostID,
		})
		if err != nil {
			return fmt.Errorf("failed to encode plain post item: %w", err)
		}

		members = append(members, redis.Z{
			Score:  float64(item.Timestamp.UnixSecs()),
			Member: payload,
		})
	}

	return s.addAndTrim(ctx, key, kindPlainPost, members, redisrepo.MaxHistoryPlainPostItemCacheLen)
}

// AddUserHistoryPlainItemsV2 stores video-id-only projections of the given
// v2 history items for fast existence checks.
func (s *CacheService) AddUserHistoryPlainItemsV2(ctx context.Context, key string, items []domain.HistoryItemV2) error {
	members := make([]redis.Z, 0, len(items))
	for _, item := range items {
		payload, err := codec.Encode(domain.PlainPostItemV2{VideoID: item.VideoID})
		if err != nil {
			return fmt.Errorf("failed to encode plain post item: %w", err)
		}

		members = append(members, redis.Z{
			Score:  float64(item.Timestamp.UnixSecs()),
			Member: payload,
		})
	}

	return s.addAndTrim(ctx, key, kindPlainPost, members, redisrepo.MaxHistoryPlainPostItemCacheLen)
}

// IsUserHistoryPlainItemExists reports whether the exact v1 tuple is among
// the retained plain items.
func (s *CacheService) IsUserHistoryPlainItemExists(ctx context.Context, key string, item domain.PlainPostItem) (bool, error) {
	payload, err := codec.Encode(item)
	if err != nil {
		return false, fmt.Errorf("failed to encode plain post item: %w", err)
	}

	return s.log.Exists(ctx, key, payload)
}

// IsUserHistoryPlainItemExistsV2 reports whether the video id is among the
// retained plain items.
func (s *CacheService) IsUserHistoryPlainItemExistsV2(ctx context.Context, key string, item domain.PlainPostItemV2) (bool, error) {
	payload, err := codec.Encode(item)
	if err != nil {
		return false, fmt.Errorf("failed to encode plain post item: %w", err)
	}

	return s.log.Exists(ctx, key, payload)
}

// GetPlainPostItemsV3 reads a plain-item window as v3 records; v2 members
// decode with an empty post id.
func (s *CacheService) GetPlainPostItemsV3(ctx context.Context, key string, start, end int64) ([]domain.PlainPostItemV3, error) {
	raw, err := s.log.RevRange(ctx, key, start, end)
	if err != nil {
		return nil, err
	}

	items := make([]domain.PlainPostItemV3, 0, len(raw))
	for _, member := range raw {
		item, ok := codec.DecodePlainPostItemV3Resilient([]byte(member))
		if !ok {
			metrics.CacheDecodeSkips.WithLabelValues("plain_post_item_v3").Inc()
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func historyMembers(items []domain.HistoryItem) ([]redis.Z, error) {
	members := make([]redis.Z, 0, len(items))
	for _, item := range items {
		payload, err := codec.Encode(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode history item: %w", err)
		}

		members = append(members, redis.Z{Score: item.Score(), Member: payload})
	}

	return members, nil
}

func historyMembersV2(items []domain.HistoryItemV2) ([]redis.Z, error) {
	members := make([]redis.Z, 0, len(items))
	for _, item := range items {
		payload, err := codec.Encode(item)
		if err != nil {
			return nil, fmt.Errorf("failed to encode history item: %w", err)
		}

		members = append(members, redis.Z{Score: item.Score(), Member: payload})
	}

	return members, nil
}
