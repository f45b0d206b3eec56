package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlFeedCache/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	item := domain.HistoryItemV2{
		PublisherUserID: "pub-1",
		CanisterID:      "can-1",
		PostID:          42,
		VideoID:         "vid-1",
		ItemType:        domain.ItemTypeVideoViewed,
		Timestamp:       domain.TimestampFromSecs(1700000000),
		PercentWatched:  0.75,
	}

	payload, err := Encode(item)
	require.NoError(t, err)

	decoded, err := Decode[domain.HistoryItemV2]([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, item, decoded)
}

func TestEncodeIsDeterministic(t *testing.T) {
	item := domain.PlainPostItemV2{VideoID: "vid-1"}

	a, err := Encode(item)
	require.NoError(t, err)
	b, err := Encode(item)
	require.NoError(t, err)

	// existence checks compare raw members, so payloads must be stable
	assert.Equal(t, a, b)
}

func TestDecodeHistoryItemV2ResilientStringPostID(t *testing.T) {
	payload := `{"publisher_user_id":"pub-1","canister_id":"can-1","post_id":"123",` +
		`"video_id":"vid-1","item_type":"like_video",` +
		`"timestamp":{"secs_since_epoch":1700000000,"nanos_since_epoch":0},"percent_watched":0.5}`

	item, ok := DecodeHistoryItemV2Resilient([]byte(payload))
	require.True(t, ok)
	assert.Equal(t, uint64(123), item.PostID)
	assert.Equal(t, "vid-1", item.VideoID)
	assert.Equal(t, uint64(1700000000), item.Timestamp.UnixSecs())
}

func TestDecodeHistoryItemV2ResilientSkipsUncoerciblePostID(t *testing.T) {
	payload := `{"post_id":"not-a-number","video_id":"vid-1","item_type":"video_viewed"}`

	_, ok := DecodeHistoryItemV2Resilient([]byte(payload))
	assert.False(t, ok)
}

func TestDecodeHistoryItemV3ResilientCoercesIntPostID(t *testing.T) {
	payload := `{"post_id":42,"video_id":"vid-1","item_type":"video_viewed",` +
		`"timestamp":{"secs_since_epoch":1000,"nanos_since_epoch":0},"percent_watched":1}`

	item, ok := DecodeHistoryItemV3Resilient([]byte(payload))
	require.True(t, ok)
	assert.Equal(t, "42", item.PostID)
	assert.Equal(t, float32(1), item.PercentWatched)
}

func TestDecodeHistoryItemV3ResilientDefaults(t *testing.T) {
	item, ok := DecodeHistoryItemV3Resilient([]byte(`{"post_id":"7"}`))
	require.True(t, ok)

	assert.Equal(t, "", item.VideoID)
	assert.Equal(t, "", item.ItemType)
	assert.Equal(t, float32(0), item.PercentWatched)
	// missing timestamp defaults to roughly now
	assert.NotEqual(t, uint64(0), item.Timestamp.UnixSecs())
}

func TestDecodePostItemV3ResilientNsfwFallback(t *testing.T) {
	// v1 member with a probability above the threshold
	item, ok := DecodePostItemV3Resilient([]byte(`{"post_id":1,"video_id":"a","nsfw_probability":0.9}`))
	require.True(t, ok)
	assert.True(t, item.IsNsfw)

	// v1 member below the threshold
	item, ok = DecodePostItemV3Resilient([]byte(`{"post_id":2,"video_id":"b","nsfw_probability":0.1}`))
	require.True(t, ok)
	assert.False(t, item.IsNsfw)

	// explicit v2 flag wins over the probability
	item, ok = DecodePostItemV3Resilient([]byte(`{"post_id":3,"video_id":"c","is_nsfw":false,"nsfw_probability":0.9}`))
	require.True(t, ok)
	assert.False(t, item.IsNsfw)
}

func TestDecodePostItemV2ResilientSkipsNonNumericStringID(t *testing.T) {
	_, ok := DecodePostItemV2Resilient([]byte(`{"post_id":"abc-123","video_id":"vid"}`))
	assert.False(t, ok)

	item, ok := DecodePostItemV2Resilient([]byte(`{"post_id":"99","video_id":"vid"}`))
	require.True(t, ok)
	assert.Equal(t, uint64(99), item.PostID)
}

func TestDecodeHistoryItemResilientBothPostIDForms(t *testing.T) {
	intPayload := `{"canister_id":"can-1","post_id":42,"video_id":"vid-1","nsfw_probability":0.2,` +
		`"item_type":"video_viewed","timestamp":{"secs_since_epoch":1000,"nanos_since_epoch":0},"percent_watched":0.5}`
	strPayload := `{"canister_id":"can-1","post_id":"42","video_id":"vid-1","nsfw_probability":0.2,` +
		`"item_type":"video_viewed","timestamp":{"secs_since_epoch":1000,"nanos_since_epoch":0},"percent_watched":0.5}`

	fromInt, ok := DecodeHistoryItemResilient([]byte(intPayload))
	require.True(t, ok)
	fromStr, ok := DecodeHistoryItemResilient([]byte(strPayload))
	require.True(t, ok)

	assert.Equal(t, fromInt, fromStr)
	assert.Equal(t, uint64(42), fromInt.PostID)
	assert.Equal(t, float32(0.2), fromInt.NsfwProbability)

	_, ok = DecodeHistoryItemResilient([]byte(`{"post_id":"vid#42","video_id":"vid-1"}`))
	assert.False(t, ok)
}

func TestDecodePostItemResilientBothPostIDForms(t *testing.T) {
	fromInt, ok := DecodePostItemResilient([]byte(`{"canister_id":"can-1","post_id":9,"video_id":"v","nsfw_probability":0.8}`))
	require.True(t, ok)
	fromStr, ok := DecodePostItemResilient([]byte(`{"canister_id":"can-1","post_id":"9","video_id":"v","nsfw_probability":0.8}`))
	require.True(t, ok)

	assert.Equal(t, fromInt, fromStr)
	assert.Equal(t, uint64(9), fromInt.PostID)

	_, ok = DecodePostItemResilient([]byte(`{"post_id":true,"video_id":"v"}`))
	assert.False(t, ok)
}

func TestDecodeBufferItemV2ResilientMalformedPayload(t *testing.T) {
	_, ok := DecodeBufferItemV2Resilient([]byte(`not json`))
	assert.False(t, ok)
}

func TestDecodePlainPostItemV3ResilientMissingPostID(t *testing.T) {
	// v2 plain members carry only a video id
	item, ok := DecodePlainPostItemV3Resilient([]byte(`{"video_id":"vid-1"}`))
	require.True(t, ok)
	assert.Equal(t, "vid-1", item.VideoID)
	assert.Equal(t, "", item.PostID)
}
