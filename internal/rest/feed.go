package rest

import (
	"context"
	"net/http"
	"time"

	"mlFeedCache/business/feedcache"
	"mlFeedCache/domain"
	redisrepo "mlFeedCache/internal/repository/redis"
	"mlFeedCache/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type FeedService interface {
	AddUserCacheItemsV2(ctx context.Context, key string, items []domain.PostItemV2) error
	AddGlobalCacheItemsV2(ctx context.Context, key string, items []domain.PostItemV2) error
	GetCacheItemsV2(ctx context.Context, key string, start, end int64) ([]domain.PostItemV2, error)
	GetCacheItemsV3Resilient(ctx context.Context, key string, start, end int64) ([]domain.PostItemV3, error)
}

type FeedHandler struct {
	feedService FeedService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewFeedHandler(feedService FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type PostItemRequest struct {
	PublisherUserID string `json:"publisher_user_id"`
	CanisterID      string `json:"canister_id"`
	PostID          uint64 `json:"post_id"`
	VideoID         string `json:"video_id" validate:"required"`
	IsNsfw          bool   `json:"is_nsfw"`
}

type AddFeedRequest struct {
	Class string            `json:"class" validate:"required,oneof=clean nsfw mixed"`
	Items []PostItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r *AddFeedRequest) toDomain() []domain.PostItemV2 {
	items := make([]domain.PostItemV2, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.PostItemV2{
			PublisherUserID: item.PublisherUserID,
			CanisterID:      item.CanisterID,
			PostID:          item.PostID,
			VideoID:         item.VideoID,
			IsNsfw:          item.IsNsfw,
		})
	}

	return items
}

func (h *FeedHandler) AddUserFeed(c echo.Context) error {
	userID := c.Param("userId")

	var req AddFeedRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind user feed request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate user feed request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	key := redisrepo.UserKey(userID, feedcache.UserCacheSuffixV2(feedcache.Class(req.Class)))
	if err := h.feedService.AddUserCacheItemsV2(ctx, key, req.toDomain()); err != nil {
		logger.Error("Failed to add user feed items", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(len(req.Items)))
}

func (h *FeedHandler) AddGlobalFeed(c echo.Context) error {
	var req AddFeedRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind global feed request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate global feed request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	key := feedcache.GlobalCacheKeyV2(feedcache.Class(req.Class))
	if err := h.feedService.AddGlobalCacheItemsV2(ctx, key, req.toDomain()); err != nil {
		logger.Error("Failed to add global feed items", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(len(req.Items)))
}

func (h *FeedHandler) GetUserFeed(c echo.Context) error {
	userID := c.Param("userId")

	class, err := feedcache.ParseClass(c.QueryParam("class"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	start, end, err := rangeParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	key := redisrepo.UserKey(userID, feedcache.UserCacheSuffixV2(class))
	items, err := h.feedService.GetCacheItemsV2(ctx, key, start, end)
	if err != nil {
		logger.Error("Failed to get user feed items", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(items))
}

func (h *FeedHandler) GetGlobalFeed(c echo.Context) error {
	class, err := feedcache.ParseClass(c.QueryParam("class"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	start, end, err := rangeParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	key := feedcache.GlobalCacheKeyV2(class)

	// v3 readers tolerate members written by any producer version
	items, err := h.feedService.GetCacheItemsV3Resilient(ctx, key, start, end)
	if err != nil {
		logger.Error("Failed to get global feed items", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(items))
}
