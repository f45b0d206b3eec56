package redis

import (
	"context"
	"fmt"
)

// AddToSet adds the members to a plain (unscored) set. Used for the
// watched-video-ids sets written by the backfill.
func (l *ScoredLog) AddToSet(ctx context.Context, key string, members []string) error {
	if len(members) == 0 {
		return nil
	}

	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}

	if err := l.client.SAdd(ctx, key, args...).Err(); err != nil {
		return fmt.Errorf("failed to sadd to %s: %w", key, err)
	}

	return nil
}

// SetMembers returns all members of a plain set.
func (l *ScoredLog) SetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := l.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to smembers %s: %w", key, err)
	}

	return members, nil
}
