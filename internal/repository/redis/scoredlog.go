package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ScoredLog is a thin wrapper over the store's sorted-set commands. History,
// candidate feeds and the engagement buffer are all scored logs with
// different keys, scores and bounds.
type ScoredLog struct {
	client redis.UniversalClient
}

func NewScoredLog(client redis.UniversalClient) *ScoredLog {
	return &ScoredLog{client: client}
}

// drainScript fetches and deletes every member up to the bound in one store
// round trip, closing the race between the separate get and remove calls.
var drainScript = redis.NewScript(`
local items = redis.call('ZRANGEBYSCORE', KEYS[1], 0, ARGV[1])
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, ARGV[1])
return items
`)

// AddMany zadds the members in chunks of AddChunkSize per round trip.
// Re-adding an identical member rescores it; no duplicate is created.
func (l *ScoredLog) AddMany(ctx context.Context, key string, members []redis.Z) error {
	for start := 0; start < len(members); start += AddChunkSize {
		end := start + AddChunkSize
		if end > len(members) {
			end = len(members)
		}

		if err := l.client.ZAdd(ctx, key, members[start:end]...).Err(); err != nil {
			return fmt.Errorf("failed to zadd to %s: %w", key, err)
		}
	}

	return nil
}

// TrimToBound evicts lowest-scored members in excess of the bound and
// returns the number removed. Trim-after-insert is the only eviction policy.
func (l *ScoredLog) TrimToBound(ctx context.Context, key string, bound int64) (int64, error) {
	numItems, err := l.Card(ctx, key)
	if err != nil {
		return 0, err
	}

	if numItems <= bound {
		return 0, nil
	}

	excess := numItems - bound
	if err := l.client.ZRemRangeByRank(ctx, key, 0, excess-1).Err(); err != nil {
		return 0, fmt.Errorf("failed to trim %s: %w", key, err)
	}

	return excess, nil
}

func (l *ScoredLog) Card(ctx context.Context, key string) (int64, error) {
	numItems, err := l.client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to zcard %s: %w", key, err)
	}

	return numItems, nil
}

// RevRange returns raw members in the [start, stop] window, highest score
// first. Decoding is the caller's concern.
func (l *ScoredLog) RevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	members, err := l.client.ZRevRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to zrevrange %s: %w", key, err)
	}

	return members, nil
}

// RangeByScore returns raw members with score in [0, maxScore], ascending.
func (l *ScoredLog) RangeByScore(ctx context.Context, key string, maxScore uint64) ([]string, error) {
	members, err := l.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: "0",
		Max: strconv.FormatUint(maxScore, 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to zrangebyscore %s: %w", key, err)
	}

	return members, nil
}

// RemoveRangeByScore removes members with score in [0, maxScore] and returns
// the removed count.
func (l *ScoredLog) RemoveRangeByScore(ctx context.Context, key string, maxScore uint64) (uint64, error) {
	removed, err := l.client.ZRemRangeByScore(ctx, key, "0", strconv.FormatUint(maxScore, 10)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to zremrangebyscore %s: %w", key, err)
	}

	return uint64(removed), nil
}

// Drain atomically fetches and removes members with score in [0, maxScore].
func (l *ScoredLog) Drain(ctx context.Context, key string, maxScore uint64) ([]string, error) {
	res, err := drainScript.Run(ctx, l.client, []string{key}, maxScore).StringSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to drain %s: %w", key, err)
	}

	return res, nil
}

// Exists reports whether the member is present, by a non-null ZSCORE.
func (l *ScoredLog) Exists(ctx context.Context, key, member string) (bool, error) {
	_, err := l.client.ZScore(ctx, key, member).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to zscore %s: %w", key, err)
	}

	return true, nil
}

// DeleteKeys removes the given keys in one batched deletion call.
func (l *ScoredLog) DeleteKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := l.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}

	return nil
}

// ScanKeys walks keys matching the pattern with cursor pagination and calls
// fn for each key. Never KEYS; batches of ScanCount.
func (l *ScoredLog) ScanKeys(ctx context.Context, pattern string, fn func(key string)) error {
	var cursor uint64
	for {
		keys, next, err := l.client.Scan(ctx, cursor, pattern, ScanCount).Result()
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", pattern, err)
		}

		for _, key := range keys {
			fn(key)
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
