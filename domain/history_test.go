package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryItemScore(t *testing.T) {
	ts := TimestampFromSecs(1000)

	viewed := HistoryItemV2{
		VideoID:        "vid-1",
		ItemType:       ItemTypeVideoViewed,
		Timestamp:      ts,
		PercentWatched: 0.5,
	}
	assert.Equal(t, 1050.0, viewed.Score())

	liked := HistoryItemV2{
		VideoID:        "vid-1",
		ItemType:       ItemTypeLikeVideo,
		Timestamp:      ts,
		PercentWatched: 0.5,
	}
	assert.Equal(t, 1150.0, liked.Score())
}

func TestHistoryItemScoreUnknownItemType(t *testing.T) {
	item := HistoryItemV2{
		ItemType:       "share_video",
		Timestamp:      TimestampFromSecs(2000),
		PercentWatched: 1.0,
	}

	// unknown types get no lift, only the watch fraction
	assert.Equal(t, 2100.0, item.Score())
}

func TestHistoryItemScoreConsistentAcrossVersions(t *testing.T) {
	ts := TimestampFromSecs(500)

	v1 := HistoryItem{ItemType: ItemTypeLikeVideo, Timestamp: ts, PercentWatched: 0.25}
	v2 := HistoryItemV2{ItemType: ItemTypeLikeVideo, Timestamp: ts, PercentWatched: 0.25}
	v3 := HistoryItemV3{ItemType: ItemTypeLikeVideo, Timestamp: ts, PercentWatched: 0.25}

	assert.Equal(t, v1.Score(), v2.Score())
	assert.Equal(t, v2.Score(), v3.Score())
}
