package domain

// Probability above which a v2 candidate payload maps to the v3 nsfw flag.
const NsfwProbabilityThreshold = 0.4

// PostItem is the deprecated v1 candidate record.
type PostItem struct {
	CanisterID      string  `json:"canister_id"`
	PostID          uint64  `json:"post_id"`
	VideoID         string  `json:"video_id"`
	NsfwProbability float32 `json:"nsfw_probability"`
}

// PostItemV2 carries a moderation flag instead of a raw probability.
type PostItemV2 struct {
	PublisherUserID string `json:"publisher_user_id"`
	CanisterID      string `json:"canister_id"`
	PostID          uint64 `json:"post_id"`
	VideoID         string `json:"video_id"`
	IsNsfw          bool   `json:"is_nsfw"`
}

// PostItemV3 stores the post id as a string.
type PostItemV3 struct {
	PublisherUserID string `json:"publisher_user_id"`
	CanisterID      string `json:"canister_id"`
	PostID          string `json:"post_id"`
	VideoID         string `json:"video_id"`
	IsNsfw          bool   `json:"is_nsfw"`
}

// PlainPostItem is the v1 identifier-only projection used for existence checks.
type PlainPostItem struct {
	CanisterID string `json:"canister_id"`
	PostID     uint64 `json:"post_id"`
}

// PlainPostItemV2 identifies a post by video id alone.
type PlainPostItemV2 struct {
	VideoID string `json:"video_id"`
}

// PlainPostItemV3 adds the string post id missing from v2.
type PlainPostItemV3 struct {
	VideoID string `json:"video_id"`
	PostID  string `json:"post_id"`
}
