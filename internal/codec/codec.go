// Package codec serializes cache records to the JSON payloads stored as
// sorted-set members. The resilient decoders accept payloads written by any
// producer schema version: post ids coerce between integer and string forms,
// and members that cannot be coerced are skipped rather than surfaced as
// errors, because the store is shared with producers that were never
// coordinated with this reader.
package codec

import (
	"bytes"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"mlFeedCache/domain"
)

// Encode produces the canonical member payload for a record.
func Encode(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode is the strict decoder: it fails on unknown or mismatched fields.
// Read paths over shared keys use the Decode*Resilient variants; Decode is
// for consumers that control both ends of a key, where a mismatch is a bug
// to surface rather than a payload to skip.
func Decode[T any](data []byte) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(&v)
	return v, err
}

// decodeFields parses a payload into an untyped field map, preserving number
// precision, so resilient decoders can coerce field-by-field.
func decodeFields(data []byte) (map[string]interface{}, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return nil, false
	}
	return m, true
}

func stringField(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func float32Field(m map[string]interface{}, key string) float32 {
	if n, ok := m[key].(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			return float32(f)
		}
	}
	return 0
}

func boolField(m map[string]interface{}, key string) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return false
}

// postIDUint64 coerces a post id written by any version to u64. A string id
// is accepted iff it parses as an unsigned 64-bit integer.
func postIDUint64(m map[string]interface{}) (uint64, bool) {
	switch v := m["post_id"].(type) {
	case json.Number:
		id, err := strconv.ParseUint(v.String(), 10, 64)
		return id, err == nil
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

// postIDString coerces a post id written by any version to its v3 string form.
func postIDString(m map[string]interface{}) (string, bool) {
	switch v := m["post_id"].(type) {
	case json.Number:
		return v.String(), true
	case string:
		return v, true
	default:
		return "", false
	}
}

// timestampField reads a {secs_since_epoch,...} object, defaulting to now.
func timestampField(m map[string]interface{}, key string) domain.Timestamp {
	ts, ok := m[key].(map[string]interface{})
	if !ok {
		return domain.NewTimestamp(time.Now())
	}

	n, ok := ts["secs_since_epoch"].(json.Number)
	if !ok {
		return domain.NewTimestamp(time.Now())
	}

	secs, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return domain.NewTimestamp(time.Now())
	}

	return domain.TimestampFromSecs(secs)
}

// DecodeHistoryItemResilient decodes a v1 history member, accepting both
// integer and string post ids.
func DecodeHistoryItemResilient(data []byte) (domain.HistoryItem, bool) {
	m, ok := decodeFields(data)
	if !ok {
		return domain.HistoryItem{}, false
	}

	postID, ok := postIDUint64(m)
	if !ok {
		return domain.HistoryItem{}, false
	}

	return domain.HistoryItem{
		CanisterID:      stringField(m, "canister_id"),
		PostID:          postID,
		VideoID:         stringField(m, "video_id"),
		NsfwProbability: float32Field(m, "nsfw_probability"),
		ItemType:        stringField(m, "item_type"),
		Timestamp:       timestampField(m, "timestamp"),
		PercentWatched:  float32Field(m, "percent_watched"),
	}, true
}

// DecodeHistoryItemV2Resilient decodes a v2 history member, accepting both
// integer and string post ids.
func DecodeHistoryItemV2Resilient(data []byte) (domain.HistoryItemV2, bool) {
	m, ok := decodeFields(data)
	if !ok {
		return domain.HistoryItemV2{}, false
	}

	postID, ok := postIDUint64(m)
	if !ok {
		return domain.HistoryItemV2{}, false
	}

	return domain.HistoryItemV2{
		PublisherUserID: stringField(m, "publisher_user_id"),
		CanisterID:      stringField(m, "canister_id"),
		PostID:          postID,
		VideoID:         stringField(m, "video_id"),
		ItemType:        stringField(m, "item_type"),
		Timestamp:       timestampField(m, "timestamp"),
		PercentWatched:  float32Field(m, "percent_watched"),
	}, true
}

// DecodeHistoryItemV3Resilient reads members written by any version into the
// v3 record; integer post ids become their decimal string form.
func DecodeHistoryItemV3Resilient(data []byte) (domain.HistoryItemV3, bool) {
	m, ok := decodeFields(data)
	if !ok {
		return domain.HistoryItemV3{}, false
	}

	postID, ok := postIDString(m)
	if !ok {
		return domain.HistoryItemV3{}, false
	}

	return domain.HistoryItemV3{
		PublisherUserID: stringField(m, "publisher_user_id"),
		CanisterID:      stringField(m, "canister_id"),
		PostID:          postID,
		VideoID:         stringField(m, "video_id"),
		ItemType:        stringField(m, "item_type"),
		Timestamp:       timestampField(m, "timestamp"),
		PercentWatched:  float32Field(m, "percent_watched"),
	}, true
}

// DecodePostItemResilient decodes a v1 candidate member.
func DecodePostItemResilient(data []byte) (domain.PostItem, bool) {
	m, ok := decodeFields(data)
	if !ok {
		return domain.PostItem{}, false
	}

	postID, ok := postIDUint64(m)
	if !ok {
		return domain.PostItem{}, false
	}

	return domain.PostItem{
		CanisterID:      stringField(m, "canister_id"),
		PostID:          postID,
		VideoID:         stringField(m, "video_id"),
		NsfwProbability: float32Field(m, "nsfw_probability"),
	}, true
}

// DecodePostItemV2Resilient decodes a v2 candidate member. A string post id
// is accepted iff it parses as u64; anything else is skipped.
func DecodePostItemV2Resilient(data []byte) (domain.PostItemV2, bool) {
	m, ok := decodeFields(data)
	if !ok {
		return domain.PostItemV2{}, false
	}

	postID, ok := postIDUint64(m)
	if !ok {
		return domain.PostItemV2{}, false
	}

	return domain.PostItemV2{
		PublisherUserID: stringField(m, "publisher_user_id"),
		CanisterID:      stringField(m, "canister_id"),
		PostID:          postID,
		VideoID:         stringField(m, "video_id"),
		IsNsfw:          boolField(m, "is_nsfw"),
	}, true
}

// DecodePostItemV3Resilient reads candidate members written by any version.
// The nsfw flag falls back to thresholding a v1-style nsfw_probability.
func DecodePostItemV3Resilient(data []byte) (domain.PostItemV3, bool) {
	m, ok := decodeFields(data)
	if !ok {
		return domain.PostItemV3{}, false
	}

	postID, ok := postIDString(m)
	if !ok {
		return domain.PostItemV3{}, false
	}

	isNsfw := boolField(m, "is_nsfw")
	if _, has := m["is_nsfw"]; !has {
		isNsfw = float32Field(m, "nsfw_probability") > domain.NsfwProbabilityThreshold
	}

	return domain.PostItemV3{
		PublisherUserID: stringField(m, "publisher_user_id"),
		CanisterID:      stringField(m, "canister_id"),
		PostID:          postID,
		VideoID:         stringField(m, "video_id"),
		IsNsfw:          isNsfw,
	}, true
}

// DecodeBufferItemV2Resilient decodes a v2 buffer member, accepting both
// integer and string post ids.
func DecodeBufferItemV2Resilient(data []byte) (domain.BufferItemV2, bool) {
	m, ok := decodeFields(data)
	if !ok {
		return domain.BufferItemV2{}, false
	}

	postID, ok := postIDUint64(m)
	if !ok {
		return domain.BufferItemV2{}, false
	}

	return domain.BufferItemV2{
		PublisherUserID: stringField(m, "publisher_user_id"),
		PostID:          postID,
		VideoID:         stringField(m, "video_id"),
		ItemType:        stringField(m, "item_type"),
		PercentWatched:  float32Field(m, "percent_watched"),
		UserID:          stringField(m, "user_id"),
		Timestamp:       timestampField(m, "timestamp"),
	}, true
}

// DecodeBufferItemV3Resilient reads buffer members written by any version.
func DecodeBufferItemV3Resilient(data []byte) (domain.BufferItemV3, bool) {
	m, ok := decodeFields(data)
	if !ok {
		return domain.BufferItemV3{}, false
	}

	postID, ok := postIDString(m)
	if !ok {
		return domain.BufferItemV3{}, false
	}

	return domain.BufferItemV3{
		PublisherUserID: stringField(m, "publisher_user_id"),
		PostID:          postID,
		VideoID:         stringField(m, "video_id"),
		ItemType:        stringField(m, "item_type"),
		PercentWatched:  float32Field(m, "percent_watched"),
		UserID:          stringField(m, "user_id"),
		Timestamp:       timestampField(m, "timestamp"),
	}, true
}

// DecodePlainPostItemV3Resilient reads plain members written by v2 or v3.
// v2 members carry no post id, so it defaults to empty.
func DecodePlainPostItemV3Resilient(data []byte) (domain.PlainPostItemV3, bool) {
	m, ok := decodeFields(data)
	if !ok {
		return domain.PlainPostItemV3{}, false
	}

	postID, _ := postIDString(m)

	return domain.PlainPostItemV3{
		VideoID: stringField(m, "video_id"),
		PostID:  postID,
	}, true
}
