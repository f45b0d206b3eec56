package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"mlFeedCache/business/feedcache"
	"mlFeedCache/pkg/config"
	redisdb "mlFeedCache/pkg/database/redis"
	"mlFeedCache/pkg/logger"
)

// Backfills the watched-video-id sets from the history sets already in Redis.
//
// Usage:
//
//	backfill               backfill every user found by scanning watch history keys
//	backfill <userId>      backfill the clean set for one user
//	backfill <userId> nsfw backfill the nsfw set for one user
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)

	client, err := redisdb.NewRedisClient(cfg.Redis.RedisURL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisdb.CloseRedisClient(client)

	service := feedcache.NewCacheService(client, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	start := time.Now()

	switch {
	case len(os.Args) < 2:
		processed, err := service.BackfillAllUsers(ctx)
		if err != nil {
			logger.Fatal("Backfill failed", "error", err)
		}
		logger.Info("Backfill complete", "users", processed, "elapsed", time.Since(start))
	default:
		userID := os.Args[1]
		nsfw := len(os.Args) > 2 && os.Args[2] == "nsfw"

		added, err := service.BackfillWatchedVideoIDs(ctx, userID, nsfw)
		if err != nil {
			logger.Fatal("Backfill failed", "user", userID, "error", err)
		}
		logger.Info("Backfill complete", "user", userID, "nsfw", nsfw, "videos", added, "elapsed", time.Since(start))

		fmt.Printf("backfilled %d video ids for %s\n", added, userID)
	}
}
