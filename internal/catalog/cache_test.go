package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"cockpit-fit-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client, ttl), mr
}

func TestCache_RoundTrip(t *testing.T) {
	cache, mr := newTestCache(t, 10*time.Minute)
	ctx := context.Background()

	miss, err := cache.GetFrame(ctx, "f-1")
	require.NoError(t, err)
	assert.Nil(t, miss)

	seat := 73.5
	frame := &models.Frame{ID: "f-1", Brand: "Trek", Model: "Domane", SizeLabel: "56",
		StackMm: 591, ReachMm: 383, SeatTubeAngleDeg: &seat}
	require.NoError(t, cache.SetFrame(ctx, frame))

	assert.True(t, mr.Exists("frame:geometry:f-1"))
	assert.Equal(t, 10*time.Minute, mr.TTL("frame:geometry:f-1"))

	got, err := cache.GetFrame(ctx, "f-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *frame, *got)

	mr.FastForward(11 * time.Minute)
	expired, err := cache.GetFrame(ctx, "f-1")
	require.NoError(t, err)
	assert.Nil(t, expired)
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("frame:geometry:f-2", "{not json"))

	got, err := cache.GetFrame(context.Background(), "f-2")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestCache_Invalidate(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.SetFrame(ctx, &models.Frame{ID: "f-3", Brand: "Cervelo", Model: "R5"}))
	require.NoError(t, cache.Invalidate(ctx, "f-3"))
	assert.False(t, mr.Exists("frame:geometry:f-3"))
}

func TestCache_Errors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewCache(client, time.Minute)
	ctx := context.Background()

	mock.ExpectGet("frame:geometry:f-1").SetErr(errors.New("connection refused"))
	_, err := cache.GetFrame(ctx, "f-1")
	assert.EqualError(t, err, "cache get f-1: connection refused")

	mock.ExpectGet("frame:geometry:f-1").RedisNil()
	got, err := cache.GetFrame(ctx, "f-1")
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}
