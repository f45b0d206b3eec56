package domain

// Engagement item types recorded in history sets.
const (
	ItemTypeVideoViewed = "video_viewed"
	ItemTypeLikeVideo   = "like_video"
)

// Scoring constants for history items. Timestamp dominates; a like gives a
// fixed lift; percent watched orders items within the same second.
const (
	LikeVideoScoreLift      = 100.0
	PercentWatchedScoreMult = 100.0
)

// HistoryItem is the deprecated v1 engagement record.
type HistoryItem struct {
	CanisterID      string    `json:"canister_id"`
	PostID          uint64    `json:"post_id"`
	VideoID         string    `json:"video_id"`
	NsfwProbability float32   `json:"nsfw_probability"`
	ItemType        string    `json:"item_type"`
	Timestamp       Timestamp `json:"timestamp"`
	PercentWatched  float32   `json:"percent_watched"`
}

func (i HistoryItem) Score() float64 {
	return historyScore(i.ItemType, i.Timestamp, i.PercentWatched)
}

// HistoryItemV2 replaces the publisher canister with a publisher user id.
// The canister id stays to abide by the current contract.
type HistoryItemV2 struct {
	PublisherUserID string    `json:"publisher_user_id"`
	CanisterID      string    `json:"canister_id"`
	PostID          uint64    `json:"post_id"`
	VideoID         string    `json:"video_id"`
	ItemType        string    `json:"item_type"`
	Timestamp       Timestamp `json:"timestamp"`
	PercentWatched  float32   `json:"percent_watched"`
}

func (i HistoryItemV2) Score() float64 {
	return historyScore(i.ItemType, i.Timestamp, i.PercentWatched)
}

// HistoryItemV3 stores the post id as a string.
type HistoryItemV3 struct {
	PublisherUserID string    `json:"publisher_user_id"`
	CanisterID      string    `json:"canister_id"`
	PostID          string    `json:"post_id"`
	VideoID         string    `json:"video_id"`
	ItemType        string    `json:"item_type"`
	Timestamp       Timestamp `json:"timestamp"`
	PercentWatched  float32   `json:"percent_watched"`
}

func (i HistoryItemV3) Score() float64 {
	return historyScore(i.ItemType, i.Timestamp, i.PercentWatched)
}

func historyScore(itemType string, ts Timestamp, percentWatched float32) float64 {
	score := float64(ts.UnixSecs())

	if itemType == ItemTypeLikeVideo {
		score += LikeVideoScoreLift
	}

	score += float64(percentWatched) * PercentWatchedScoreMult

	return score
}
