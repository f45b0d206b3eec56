package feedcache

import (
	"context"
	"strings"

	redisrepo "mlFeedCache/internal/repository/redis"
	"mlFeedCache/pkg/logger"
)

// DeleteUserCaches removes every cache set owned by the user across all
// known suffixes and schema versions in one batched deletion, and mirrors
// the deletion to the secondary store.
func (s *CacheService) DeleteUserCaches(ctx context.Context, userID string) error {
	suffixes := redisrepo.AllUserSuffixes()

	keys := make([]string, 0, len(suffixes))
	for _, suffix := range suffixes {
		keys = append(keys, redisrepo.UserKey(userID, suffix))
	}

	if err := s.log.DeleteKeys(ctx, keys); err != nil {
		return err
	}

	s.mirrorDelete(keys)

	return nil
}

// BackfillWatchedVideoIDs derives the set of distinct video ids a user has
// watched from the v2 watch history, success history and plain-post log of
// the given class, and writes it to the user's watched-video-ids set.
// Returns the number of distinct ids found.
func (s *CacheService) BackfillWatchedVideoIDs(ctx context.Context, userID string, nsfw bool) (int, error) {
	historySuffixes := []string{
		WatchHistorySuffixV2(nsfw),
		SuccessHistorySuffixV2(nsfw),
	}

	videoIDs := make(map[string]struct{})

	for _, suffix := range historySuffixes {
		key := redisrepo.UserKey(userID, suffix)
		items, err := s.GetWatchHistoryItemsV3Resilient(ctx, key, 0, redisrepo.MaxWatchHistoryCacheLen-1)
		if err != nil {
			logger.Warn("failed to read history for backfill", "key", key, "error", err)
			continue
		}

		for _, item := range items {
			videoIDs[item.VideoID] = struct{}{}
		}
	}

	plainKey := redisrepo.UserKey(userID, redisrepo.UserWatchHistoryPlainPostItemSuffixV2)
	plainItems, err := s.GetPlainPostItemsV3(ctx, plainKey, 0, redisrepo.MaxHistoryPlainPostItemCacheLen-1)
	if err != nil {
		logger.Warn("failed to read plain items for backfill", "key", plainKey, "error", err)
	}
	for _, item := range plainItems {
		if item.VideoID != "" {
			videoIDs[item.VideoID] = struct{}{}
		}
	}

	if len(videoIDs) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(videoIDs))
	for id := range videoIDs {
		ids = append(ids, id)
	}

	setKey := redisrepo.UserKey(userID, WatchedVideoIDsSetSuffixV2(nsfw))
	if err := s.log.AddToSet(ctx, setKey, ids); err != nil {
		return 0, err
	}

	logger.Info("backfilled watched video ids", "user_id", userID, "nsfw", nsfw, "count", len(ids))

	return len(ids), nil
}

// GetWatchedVideoIDs returns the user's watched-video-ids set for the class.
func (s *CacheService) GetWatchedVideoIDs(ctx context.Context, userID string, nsfw bool) ([]string, error) {
	return s.log.SetMembers(ctx, redisrepo.UserKey(userID, WatchedVideoIDsSetSuffixV2(nsfw)))
}

// BackfillAllUsers walks every v2 watch-history key with cursor pagination,
// deduplicates (user, class) pairs within the run and backfills each.
// Individual failures are logged and skipped; the walk continues. Returns
// the number of (user, class) pairs processed.
func (s *CacheService) BackfillAllUsers(ctx context.Context) (int, error) {
	type target struct {
		suffix string
		nsfw   bool
	}
	targets := []target{
		{suffix: redisrepo.UserWatchHistoryCleanSuffixV2, nsfw: false},
		{suffix: redisrepo.UserWatchHistoryNsfwSuffixV2, nsfw: true},
	}

	processed := make(map[string]struct{})

	for _, t := range targets {
		err := s.log.ScanKeys(ctx, "*"+t.suffix, func(key string) {
			userID := strings.TrimSuffix(key, t.suffix)
			if userID == key || userID == "" {
				return
			}

			dedupeKey := userID + "|" + t.suffix
			if _, seen := processed[dedupeKey]; seen {
				return
			}
			processed[dedupeKey] = struct{}{}

			if _, err := s.BackfillWatchedVideoIDs(ctx, userID, t.nsfw); err != nil {
				logger.Error("failed to backfill user", "user_id", userID, "nsfw", t.nsfw, "error", err)
			}
		})
		if err != nil {
			return len(processed), err
		}
	}

	logger.Info("backfill walk complete", "users", len(processed))

	return len(processed), nil
}
