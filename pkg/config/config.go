package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Server ServerConfig
	Redis  RedisConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type RedisConfig struct {
	// Primary store holding all cache sets.
	RedisURL string
	// Secondary store mirrored on v2 history writes. Empty disables mirroring.
	MemoryStoreURL string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "ML Feed Cache"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Redis: RedisConfig{
			RedisURL:       os.Getenv("ML_FEED_CACHE_REDIS_URL"),
			MemoryStoreURL: os.Getenv("ML_FEED_CACHE_MEMORYSTORE_URL"),
		},
	}

	if cfg.Redis.RedisURL == "" {
		return nil, errors.New("missing ML_FEED_CACHE_REDIS_URL")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
