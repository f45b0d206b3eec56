package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlFeedCache/domain"
)

type fakeHistoryService struct {
	addedKey   string
	addedItems []domain.HistoryItemV2
	items      []domain.HistoryItemV2
	exists     bool
}

func (f *fakeHistoryService) AddUserWatchHistoryItemsV2(_ context.Context, key string, items []domain.HistoryItemV2) error {
	f.addedKey = key
	f.addedItems = items
	return nil
}

func (f *fakeHistoryService) AddUserSuccessHistoryItemsV2(_ context.Context, key string, items []domain.HistoryItemV2) error {
	f.addedKey = key
	f.addedItems = items
	return nil
}

func (f *fakeHistoryService) AddUserHistoryPlainItemsV2(_ context.Context, key string, items []domain.HistoryItemV2) error {
	f.addedKey = key
	f.addedItems = items
	return nil
}

func (f *fakeHistoryService) GetHistoryItemsV2(_ context.Context, _ string, _, _ int64) ([]domain.HistoryItemV2, error) {
	return f.items, nil
}

func (f *fakeHistoryService) IsUserHistoryPlainItemExistsV2(_ context.Context, _ string, _ domain.PlainPostItemV2) (bool, error) {
	return f.exists, nil
}

func TestAddWatchHistoryRoutesToClassKey(t *testing.T) {
	svc := &fakeHistoryService{}
	handler := NewHistoryHandler(svc)

	body := `{"nsfw":true,"items":[{"video_id":"vid-1","item_type":"video_viewed","timestamp_secs":1000,"percent_watched":0.5}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := echo.New().NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("user-1")

	require.NoError(t, handler.AddWatchHistory(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user-1_watch_nsfw_v2", svc.addedKey)
	require.Len(t, svc.addedItems, 1)
	assert.Equal(t, "vid-1", svc.addedItems[0].VideoID)
	assert.Equal(t, uint64(1000), svc.addedItems[0].Timestamp.UnixSecs())
}

func TestAddWatchHistoryRejectsEmptyItems(t *testing.T) {
	handler := NewHistoryHandler(&fakeHistoryService{})

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[]}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := echo.New().NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("user-1")

	require.NoError(t, handler.AddWatchHistory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddWatchHistoryRejectsMissingVideoID(t *testing.T) {
	handler := NewHistoryHandler(&fakeHistoryService{})

	body := `{"items":[{"item_type":"video_viewed"}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := echo.New().NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("user-1")

	require.NoError(t, handler.AddWatchHistory(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHistoryDefaultsRange(t *testing.T) {
	svc := &fakeHistoryService{items: []domain.HistoryItemV2{{VideoID: "vid-1"}}}
	handler := NewHistoryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/?nsfw=false", nil)
	rec := httptest.NewRecorder()

	c := echo.New().NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("user-1")

	require.NoError(t, handler.GetHistory(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "vid-1")
}

func TestPlainItemExists(t *testing.T) {
	svc := &fakeHistoryService{exists: true}
	handler := NewHistoryHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/?video_id=vid-1", nil)
	rec := httptest.NewRecorder()

	c := echo.New().NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("user-1")

	require.NoError(t, handler.PlainItemExists(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "true")
}
