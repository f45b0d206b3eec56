package domain

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampWireFormat(t *testing.T) {
	ts := NewTimestamp(time.Unix(1700000000, 500).UTC())

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.JSONEq(t, `{"secs_since_epoch":1700000000,"nanos_since_epoch":500}`, string(data))

	var decoded Timestamp
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, ts.Equal(decoded.Time))
}

func TestTimestampUnixSecsClampsPreEpoch(t *testing.T) {
	ts := NewTimestamp(time.Unix(-100, 0))
	assert.Equal(t, uint64(0), ts.UnixSecs())
}
