package rest

import (
	"context"
	"net/http"
	"time"

	"mlFeedCache/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type MaintenanceService interface {
	DeleteUserCaches(ctx context.Context, userID string) error
	BackfillWatchedVideoIDs(ctx context.Context, userID string, nsfw bool) (int, error)
	GetWatchedVideoIDs(ctx context.Context, userID string, nsfw bool) ([]string, error)
}

type MaintenanceHandler struct {
	maintenanceService MaintenanceService
	timeout            time.Duration
}

func NewMaintenanceHandler(maintenanceService MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		timeout:            30 * time.Second,
	}
}

func (h *MaintenanceHandler) DeleteUser(c echo.Context) error {
	userID := c.Param("userId")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.maintenanceService.DeleteUserCaches(ctx, userID); err != nil {
		logger.Error("Failed to delete user caches", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(userID))
}

func (h *MaintenanceHandler) BackfillWatchedVideos(c echo.Context) error {
	userID := c.Param("userId")
	nsfw := c.QueryParam("nsfw") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	added, err := h.maintenanceService.BackfillWatchedVideoIDs(ctx, userID, nsfw)
	if err != nil {
		logger.Error("Failed to backfill watched video ids", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(added))
}

func (h *MaintenanceHandler) GetWatchedVideos(c echo.Context) error {
	userID := c.Param("userId")
	nsfw := c.QueryParam("nsfw") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	ids, err := h.maintenanceService.GetWatchedVideoIDs(ctx, userID, nsfw)
	if err != nil {
		logger.Error("Failed to get watched video ids", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(ids))
}
