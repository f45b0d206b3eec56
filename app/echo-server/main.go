package main

import (
	"context"
	"fmt"
	"log"
	"mlFeedCache/app/echo-server/router"
	"mlFeedCache/business/feedcache"
	"mlFeedCache/internal/rest"
	"mlFeedCache/pkg/config"
	redisdb "mlFeedCache/pkg/database/redis"
	"mlFeedCache/pkg/logger"
	"mlFeedCache/pkg/metrics"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting ML Feed Cache", "version", cfg.App.Version)

	metrics.Init()

	primary, err := redisdb.NewRedisClient(cfg.Redis.RedisURL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisdb.CloseRedisClient(primary)

	logger.Info("Redis connected successfully")

	var memory *redis.Client
	if cfg.Redis.MemoryStoreURL != "" {
		memory, err = redisdb.NewRedisClient(cfg.Redis.MemoryStoreURL)
		if err != nil {
			logger.Fatal("Failed to connect to memory store", "error", err)
		}
		defer redisdb.CloseRedisClient(memory)

		logger.Info("Memory store connected successfully")
	}

	// Init service
	var memoryClient redis.UniversalClient
	if memory != nil {
		memoryClient = memory
	}
	cacheService := feedcache.NewCacheService(primary, memoryClient)

	// Init handler
	historyHandler := rest.NewHistoryHandler(cacheService)
	feedHandler := rest.NewFeedHandler(cacheService)
	bufferHandler := rest.NewBufferHandler(cacheService)
	maintenanceHandler := rest.NewMaintenanceHandler(cacheService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := primary.Ping(ctx).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		}

		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupHistoryRoutes(api, historyHandler)
	router.SetupFeedRoutes(api, feedHandler)
	router.SetupBufferRoutes(api, bufferHandler)
	router.SetupMaintenanceRoutes(api, maintenanceHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
