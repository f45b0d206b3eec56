package domain

// BufferItem is the deprecated v1 engagement event queued for the recommender.
type BufferItem struct {
	PublisherCanisterID string    `json:"publisher_canister_id"`
	PostID              uint64    `json:"post_id"`
	VideoID             string    `json:"video_id"`
	ItemType            string    `json:"item_type"`
	PercentWatched      float32   `json:"percent_watched"`
	UserCanisterID      string    `json:"user_canister_id"`
	Timestamp           Timestamp `json:"timestamp"`
}

// BufferItemV2 keys the event by user id instead of user canister.
type BufferItemV2 struct {
	PublisherUserID string    `json:"publisher_user_id"`
	PostID          uint64    `json:"post_id"`
	VideoID         string    `json:"video_id"`
	ItemType        string    `json:"item_type"`
	PercentWatched  float32   `json:"percent_watched"`
	UserID          string    `json:"user_id"`
	Timestamp       Timestamp `json:"timestamp"`
}

// BufferItemV3 stores the post id as a string.
type BufferItemV3 struct {
	PublisherUserID string    `json:"publisher_user_id"`
	PostID          string    `json:"post_id"`
	VideoID         string    `json:"video_id"`
	ItemType        string    `json:"item_type"`
	PercentWatched  float32   `json:"percent_watched"`
	UserID          string    `json:"user_id"`
	Timestamp       Timestamp `json:"timestamp"`
}
