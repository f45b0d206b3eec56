package feedcache

import (
	"fmt"

	redisrepo "mlFeedCache/internal/repository/redis"
)

// Class partitions content by moderation category.
type Class string

const (
	ClassClean Class = "clean"
	ClassNsfw  Class = "nsfw"
	ClassMixed Class = "mixed"
)

func ParseClass(s string) (Class, error) {
	switch Class(s) {
	case ClassClean, ClassNsfw, ClassMixed:
		return Class(s), nil
	default:
		return "", fmt.Errorf("unknown class %q", s)
	}
}

// WatchHistorySuffixV2 returns the v2 watch-history suffix for the class.
// History sets exist only for clean and nsfw.
func WatchHistorySuffixV2(nsfw bool) string {
	if nsfw {
		return redisrepo.UserWatchHistoryNsfwSuffixV2
	}
	return redisrepo.UserWatchHistoryCleanSuffixV2
}

func SuccessHistorySuffixV2(nsfw bool) string {
	if nsfw {
		return redisrepo.UserSuccessHistoryNsfwSuffixV2
	}
	return redisrepo.UserSuccessHistoryCleanSuffixV2
}

func WatchedVideoIDsSetSuffixV2(nsfw bool) string {
	if nsfw {
		return redisrepo.UserWatchedVideoIDsSetNsfwSuffixV2
	}
	return redisrepo.UserWatchedVideoIDsSetCleanSuffixV2
}

// UserCacheSuffixV2 returns the per-user candidate feed suffix for the class.
func UserCacheSuffixV2(class Class) string {
	switch class {
	case ClassNsfw:
		return redisrepo.UserCacheNsfwSuffixV2
	case ClassMixed:
		return redisrepo.UserCacheMixedSuffixV2
	default:
		return redisrepo.UserCacheCleanSuffixV2
	}
}

// GlobalCacheKeyV2 returns the global candidate feed key for the class.
func GlobalCacheKeyV2(class Class) string {
	switch class {
	case ClassNsfw:
		return redisrepo.GlobalCacheNsfwKeyV2
	case ClassMixed:
		return redisrepo.GlobalCacheMixedKeyV2
	default:
		return redisrepo.GlobalCacheCleanKeyV2
	}
}
