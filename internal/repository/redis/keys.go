package redis

// Cache length limits
const (
	MaxWatchHistoryCacheLen         = 10000
	MaxSuccessHistoryCacheLen       = 10000
	MaxGlobalCacheLen               = 3000
	MaxUserCacheLen                 = 1000
	MaxHistoryPlainPostItemCacheLen = 10000
)

// Command batching
const (
	// ZADD chunk per round trip
	AddChunkSize = 1000
	// SCAN batch for maintenance walks
	ScanCount = 100
)

// Global cache keys - v1
const (
	GlobalCacheCleanKey = "global_cache_clean"
	GlobalCacheNsfwKey  = "global_cache_nsfw"
	GlobalCacheMixedKey = "global_cache_mixed"
)

// Global cache keys - v2
const (
	GlobalCacheCleanKeyV2 = "global_cache_clean_v2"
	GlobalCacheNsfwKeyV2  = "global_cache_nsfw_v2"
	GlobalCacheMixedKeyV2 = "global_cache_mixed_v2"
)

// User history suffixes - v1
const (
	UserWatchHistoryCleanSuffix   = "_watch_clean"
	UserSuccessHistoryCleanSuffix = "_success_clean"
	UserWatchHistoryNsfwSuffix    = "_watch_nsfw"
	UserSuccessHistoryNsfwSuffix  = "_success_nsfw"
)

// User history suffixes - v2
const (
	UserWatchHistoryCleanSuffixV2   = "_watch_clean_v2"
	UserSuccessHistoryCleanSuffixV2 = "_success_clean_v2"
	UserWatchHistoryNsfwSuffixV2    = "_watch_nsfw_v2"
	UserSuccessHistoryNsfwSuffixV2  = "_success_nsfw_v2"
)

// User history plain post item suffixes - v1
const (
	UserWatchHistoryPlainPostItemSuffix = "_watch_plain_post_item"
	UserLikeHistoryPlainPostItemSuffix  = "_like_plain_post_item"
)

// User history plain post item suffixes - v2
const (
	UserWatchHistoryPlainPostItemSuffixV2 = "_watch_plain_post_item_v2"
	UserLikeHistoryPlainPostItemSuffixV2  = "_like_plain_post_item_v2"
)

// User hotornot buffer keys
const (
	UserHotornotBufferKey   = "user_hotornot_buffer"
	UserHotornotBufferKeyV2 = "user_hotornot_buffer_v2"
	UserHotornotBufferKeyV3 = "user_hotornot_buffer_v3"
)

// User cache suffixes - v1
const (
	UserCacheCleanSuffix = "_cache_clean"
	UserCacheNsfwSuffix  = "_cache_nsfw"
	UserCacheMixedSuffix = "_cache_mixed"
)

// User cache suffixes - v2
const (
	UserCacheCleanSuffixV2 = "_cache_clean_v2"
	UserCacheNsfwSuffixV2  = "_cache_nsfw_v2"
	UserCacheMixedSuffixV2 = "_cache_mixed_v2"
)

// Watched video id set suffixes - v2
const (
	UserWatchedVideoIDsSetCleanSuffixV2 = "_watched_video_ids_set_clean_v2"
	UserWatchedVideoIDsSetNsfwSuffixV2  = "_watched_video_ids_set_nsfw_v2"
)

// UserKey composes the set key owned by a user for a given role suffix.
func UserKey(userID, suffix string) string {
	return userID + suffix
}

// AllUserSuffixes enumerates every per-user suffix across schema versions.
// It is the single source of truth for bulk deletion: v1 suffixes stay in
// the enumeration until the v1 producer migration window closes.
func AllUserSuffixes() []string {
	return []string{
		UserWatchHistoryCleanSuffix,
		UserSuccessHistoryCleanSuffix,
		UserWatchHistoryNsfwSuffix,
		UserSuccessHistoryNsfwSuffix,
		UserWatchHistoryPlainPostItemSuffix,
		UserLikeHistoryPlainPostItemSuffix,
		UserCacheCleanSuffix,
		UserCacheNsfwSuffix,
		UserCacheMixedSuffix,
		UserWatchHistoryCleanSuffixV2,
		UserSuccessHistoryCleanSuffixV2,
		UserWatchHistoryNsfwSuffixV2,
		UserSuccessHistoryNsfwSuffixV2,
		UserWatchHistoryPlainPostItemSuffixV2,
		UserLikeHistoryPlainPostItemSuffixV2,
		UserCacheCleanSuffixV2,
		UserCacheNsfwSuffixV2,
		UserCacheMixedSuffixV2,
	}
}
