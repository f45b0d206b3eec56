package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"mlFeedCache/business/feedcache"
	"mlFeedCache/domain"
	redisrepo "mlFeedCache/internal/repository/redis"
	"mlFeedCache/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
}

type HistoryService interface {
	AddUserWatchHistoryItemsV2(ctx context.Context, key string, items []domain.HistoryItemV2) error
	AddUserSuccessHistoryItemsV2(ctx context.Context, key string, items []domain.HistoryItemV2) error
	AddUserHistoryPlainItemsV2(ctx context.Context, key string, items []domain.HistoryItemV2) error
	GetHistoryItemsV2(ctx context.Context, key string, start, end int64) ([]domain.HistoryItemV2, error)
	IsUserHistoryPlainItemExistsV2(ctx context.Context, key string, item domain.PlainPostItemV2) (bool, error)
}

type HistoryHandler struct {
	historyService HistoryService
	validator      *validator.Validate
	timeout        time.Duration
}

func NewHistoryHandler(historyService HistoryService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

type HistoryItemRequest struct {
	PublisherUserID string  `json:"publisher_user_id"`
	CanisterID      string  `json:"canister_id"`
	PostID          uint64  `json:"post_id"`
	VideoID         string  `json:"video_id" validate:"required"`
	ItemType        string  `json:"item_type" validate:"required"`
	TimestampSecs   uint64  `json:"timestamp_secs"`
	PercentWatched  float32 `json:"percent_watched"`
}

type AddHistoryRequest struct {
	Nsfw  bool                 `json:"nsfw"`
	Items []HistoryItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r *AddHistoryRequest) toDomain() []domain.HistoryItemV2 {
	items := make([]domain.HistoryItemV2, 0, len(r.Items))
	for _, item := range r.Items {
		ts := domain.TimestampFromSecs(item.TimestampSecs)
		if item.TimestampSecs == 0 {
			ts = domain.NewTimestamp(time.Now())
		}

		items = append(items, domain.HistoryItemV2{
			PublisherUserID: item.PublisherUserID,
			CanisterID:      item.CanisterID,
			PostID:          item.PostID,
			VideoID:         item.VideoID,
			ItemType:        item.ItemType,
			Timestamp:       ts,
			PercentWatched:  item.PercentWatched,
		})
	}

	return items
}

func (h *HistoryHandler) AddWatchHistory(c echo.Context) error {
	userID := c.Param("userId")

	var req AddHistoryRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind watch history request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate watch history request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	key := redisrepo.UserKey(userID, feedcache.WatchHistorySuffixV2(req.Nsfw))
	if err := h.historyService.AddUserWatchHistoryItemsV2(ctx, key, req.toDomain()); err != nil {
		logger.Error("Failed to add watch history items", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(len(req.Items)))
}

func (h *HistoryHandler) AddSuccessHistory(c echo.Context) error {
	userID := c.Param("userId")

	var req AddHistoryRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind success history request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate success history request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	key := redisrepo.UserKey(userID, feedcache.SuccessHistorySuffixV2(req.Nsfw))
	if err := h.historyService.AddUserSuccessHistoryItemsV2(ctx, key, req.toDomain()); err != nil {
		logger.Error("Failed to add success history items", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(len(req.Items)))
}

func (h *HistoryHandler) AddPlainHistory(c echo.Context) error {
	userID := c.Param("userId")

	var req AddHistoryRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind plain history request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate plain history request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	key := redisrepo.UserKey(userID, redisrepo.UserWatchHistoryPlainPostItemSuffixV2)
	if err := h.historyService.AddUserHistoryPlainItemsV2(ctx, key, req.toDomain()); err != nil {
		logger.Error("Failed to add plain history items", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(len(req.Items)))
}

func (h *HistoryHandler) GetHistory(c echo.Context) error {
	userID := c.Param("userId")
	nsfw := c.QueryParam("nsfw") == "true"

	start, end, err := rangeParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	key := redisrepo.UserKey(userID, feedcache.WatchHistorySuffixV2(nsfw))
	items, err := h.historyService.GetHistoryItemsV2(ctx, key, start, end)
	if err != nil {
		logger.Error("Failed to get history items", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(items))
}

func (h *HistoryHandler) PlainItemExists(c echo.Context) error {
	userID := c.Param("userId")
	videoID := c.QueryParam("video_id")
	if videoID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing video_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	key := redisrepo.UserKey(userID, redisrepo.UserWatchHistoryPlainPostItemSuffixV2)
	exists, err := h.historyService.IsUserHistoryPlainItemExistsV2(ctx, key, domain.PlainPostItemV2{VideoID: videoID})
	if err != nil {
		logger.Error("Failed to check plain item", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"video_id": videoID,
		"exists":   exists,
	})
}

func rangeParams(c echo.Context) (int64, int64, error) {
	start := int64(0)
	end := int64(99)

	if raw := c.QueryParam("start"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, 0, err
		}
		start = parsed
	}

	if raw := c.QueryParam("end"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, 0, err
		}
		end = parsed
	}

	return start, end, nil
}
