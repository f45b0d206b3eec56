package router

import (
	"mlFeedCache/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupHistoryRoutes(api *echo.Group, handler *rest.HistoryHandler) {
	users := api.Group("/users/:userId")

	users.POST("/watch-history", handler.AddWatchHistory)
	users.POST("/success-history", handler.AddSuccessHistory)
	users.POST("/plain-history", handler.AddPlainHistory)
	users.GET("/history", handler.GetHistory)
	users.GET("/plain-history/exists", handler.PlainItemExists)
}

func SetupFeedRoutes(api *echo.Group, handler *rest.FeedHandler) {
	api.POST("/users/:userId/feed", handler.AddUserFeed)
	api.GET("/users/:userId/feed", handler.GetUserFeed)

	feed := api.Group("/feed/global")
	feed.POST("", handler.AddGlobalFeed)
	feed.GET("", handler.GetGlobalFeed)
}

func SetupBufferRoutes(api *echo.Group, handler *rest.BufferHandler) {
	buffer := api.Group("/buffer")

	buffer.POST("", handler.AddBufferItems)
	buffer.GET("", handler.GetBufferItems)
	buffer.DELETE("", handler.RemoveBufferItems)
	buffer.POST("/drain", handler.DrainBufferItems)
}

func SetupMaintenanceRoutes(api *echo.Group, handler *rest.MaintenanceHandler) {
	users := api.Group("/users/:userId")

	users.DELETE("", handler.DeleteUser)
	users.POST("/watched-videos/backfill", handler.BackfillWatchedVideos)
	users.GET("/watched-videos", handler.GetWatchedVideos)
}
