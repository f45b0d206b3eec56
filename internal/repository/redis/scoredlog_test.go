package redis

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(t *testing.T) (*ScoredLog, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewScoredLog(client), mr
}

func TestAddManyAndCard(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()

	members := make([]redis.Z, 0, 2500)
	for i := 0; i < 2500; i++ {
		members = append(members, redis.Z{Score: float64(i), Member: fmt.Sprintf("m%d", i)})
	}

	require.NoError(t, log.AddMany(ctx, "k", members))

	n, err := log.Card(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), n)
}

func TestAddManyRescoresDuplicates(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.AddMany(ctx, "k", []redis.Z{{Score: 1, Member: "a"}}))
	require.NoError(t, log.AddMany(ctx, "k", []redis.Z{{Score: 9, Member: "a"}}))

	n, err := log.Card(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	raw, err := log.RangeByScore(ctx, "k", 9)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, raw)
}

func TestTrimToBoundEvictsLowestScored(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()

	members := make([]redis.Z, 0, 15)
	for i := 0; i < 15; i++ {
		members = append(members, redis.Z{Score: float64(i), Member: fmt.Sprintf("m%d", i)})
	}
	require.NoError(t, log.AddMany(ctx, "k", members))

	trimmed, err := log.TrimToBound(ctx, "k", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), trimmed)

	raw, err := log.RevRange(ctx, "k", 0, -1)
	require.NoError(t, err)
	require.Len(t, raw, 10)
	// oldest five are gone, newest survives
	assert.Equal(t, "m14", raw[0])
	assert.Equal(t, "m5", raw[9])
}

func TestTrimToBoundNoopUnderBound(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.AddMany(ctx, "k", []redis.Z{{Score: 1, Member: "a"}}))

	trimmed, err := log.TrimToBound(ctx, "k", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), trimmed)
}

func TestRangeAndRemoveByScore(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.AddMany(ctx, "k", []redis.Z{
		{Score: 100, Member: "a"},
		{Score: 200, Member: "b"},
		{Score: 300, Member: "c"},
	}))

	raw, err := log.RangeByScore(ctx, "k", 200)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, raw)

	removed, err := log.RemoveRangeByScore(ctx, "k", 200)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), removed)

	n, err := log.Card(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDrainIsExclusive(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.AddMany(ctx, "k", []redis.Z{
		{Score: 100, Member: "a"},
		{Score: 200, Member: "b"},
		{Score: 300, Member: "c"},
	}))

	drained, err := log.Drain(ctx, "k", 200)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, drained)

	// a second drain with the same bound sees nothing
	drained, err = log.Drain(ctx, "k", 200)
	require.NoError(t, err)
	assert.Empty(t, drained)

	n, err := log.Card(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestExists(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.AddMany(ctx, "k", []redis.Z{{Score: 1, Member: "a"}}))

	ok, err := log.Exists(ctx, "k", "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = log.Exists(ctx, "k", "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteKeys(t *testing.T) {
	log, mr := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, log.AddMany(ctx, "k1", []redis.Z{{Score: 1, Member: "a"}}))
	require.NoError(t, log.AddMany(ctx, "k2", []redis.Z{{Score: 1, Member: "a"}}))

	require.NoError(t, log.DeleteKeys(ctx, []string{"k1", "k2", "missing"}))

	assert.False(t, mr.Exists("k1"))
	assert.False(t, mr.Exists("k2"))
}

func TestScanKeysWalksAllPages(t *testing.T) {
	log, _ := newTestLog(t)
	ctx := context.Background()

	// more keys than one SCAN batch
	for i := 0; i < 250; i++ {
		key := fmt.Sprintf("user%d_watch_clean_v2", i)
		require.NoError(t, log.AddMany(ctx, key, []redis.Z{{Score: 1, Member: "a"}}))
	}
	require.NoError(t, log.AddMany(ctx, "other_key", []redis.Z{{Score: 1, Member: "a"}}))

	seen := make(map[string]struct{})
	err := log.ScanKeys(ctx, "*_watch_clean_v2", func(key string) {
		seen[key] = struct{}{}
	})
	require.NoError(t, err)
	assert.Len(t, seen, 250)
}
