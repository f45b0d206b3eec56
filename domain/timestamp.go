package domain

import (
	"time"

	"github.com/goccy/go-json"
)

// Timestamp serializes as {"secs_since_epoch":..,"nanos_since_epoch":..} so that
// members written by any producer version hash to the same payload.
type Timestamp struct {
	time.Time
}

type timestampWire struct {
	SecsSinceEpoch  uint64 `json:"secs_since_epoch"`
	NanosSinceEpoch uint32 `json:"nanos_since_epoch"`
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func TimestampFromSecs(secs uint64) Timestamp {
	return Timestamp{Time: time.Unix(int64(secs), 0).UTC()}
}

// UnixSecs returns seconds since epoch, clamped to zero for pre-epoch times.
func (t Timestamp) UnixSecs() uint64 {
	secs := t.Unix()
	if secs < 0 {
		return 0
	}
	return uint64(secs)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(timestampWire{
		SecsSinceEpoch:  t.UnixSecs(),
		NanosSinceEpoch: uint32(t.Nanosecond()),
	})
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var wire timestampWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	t.Time = time.Unix(int64(wire.SecsSinceEpoch), int64(wire.NanosSinceEpoch)).UTC()
	return nil
}
