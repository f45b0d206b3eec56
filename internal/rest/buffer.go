package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"mlFeedCache/domain"
	"mlFeedCache/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type BufferService interface {
	AddUserBufferItemsV2(ctx context.Context, items []domain.BufferItemV2) error
	GetUserBufferItemsByTimestampV2(ctx context.Context, maxTimestamp uint64) ([]domain.BufferItemV2, error)
	RemoveUserBufferItemsByTimestampV2(ctx context.Context, maxTimestamp uint64) (uint64, error)
	DrainUserBufferItemsV2(ctx context.Context, maxTimestamp uint64) ([]domain.BufferItemV2, error)
}

type BufferHandler struct {
	bufferService BufferService
	validator     *validator.Validate
	timeout       time.Duration
}

func NewBufferHandler(bufferService BufferService) *BufferHandler {
	return &BufferHandler{
		bufferService: bufferService,
		validator:     validator.New(),
		timeout:       10 * time.Second,
	}
}

type BufferItemRequest struct {
	PublisherUserID string  `json:"publisher_user_id" validate:"required"`
	UserID          string  `json:"user_id" validate:"required"`
	PostID          uint64  `json:"post_id"`
	VideoID         string  `json:"video_id" validate:"required"`
	ItemType        string  `json:"item_type" validate:"required"`
	TimestampSecs   uint64  `json:"timestamp_secs"`
	PercentWatched  float32 `json:"percent_watched"`
}

type AddBufferRequest struct {
	Items []BufferItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r *AddBufferRequest) toDomain() []domain.BufferItemV2 {
	items := make([]domain.BufferItemV2, 0, len(r.Items))
	for _, item := range r.Items {
		ts := domain.NewTimestamp(time.Now())
		if item.TimestampSecs != 0 {
			ts = domain.TimestampFromSecs(item.TimestampSecs)
		}

		items = append(items, domain.BufferItemV2{
			PublisherUserID: item.PublisherUserID,
			UserID:          item.UserID,
			PostID:          item.PostID,
			VideoID:         item.VideoID,
			ItemType:        item.ItemType,
			Timestamp:       ts,
			PercentWatched:  item.PercentWatched,
		})
	}

	return items
}

func (h *BufferHandler) AddBufferItems(c echo.Context) error {
	var req AddBufferRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind buffer request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate buffer request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.bufferService.AddUserBufferItemsV2(ctx, req.toDomain()); err != nil {
		logger.Error("Failed to add buffer items", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(len(req.Items)))
}

func (h *BufferHandler) GetBufferItems(c echo.Context) error {
	maxTimestamp, err := maxTimestampParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	items, err := h.bufferService.GetUserBufferItemsByTimestampV2(ctx, maxTimestamp)
	if err != nil {
		logger.Error("Failed to get buffer items", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(items))
}

func (h *BufferHandler) RemoveBufferItems(c echo.Context) error {
	maxTimestamp, err := maxTimestampParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	removed, err := h.bufferService.RemoveUserBufferItemsByTimestampV2(ctx, maxTimestamp)
	if err != nil {
		logger.Error("Failed to remove buffer items", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(removed))
}

func (h *BufferHandler) DrainBufferItems(c echo.Context) error {
	maxTimestamp, err := maxTimestampParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	items, err := h.bufferService.DrainUserBufferItemsV2(ctx, maxTimestamp)
	if err != nil {
		logger.Error("Failed to drain buffer items", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(items))
}

func maxTimestampParam(c echo.Context) (uint64, error) {
	raw := c.QueryParam("max_timestamp")
	if raw == "" {
		return uint64(time.Now().Unix()), nil
	}

	return strconv.ParseUint(raw, 10, 64)
}
