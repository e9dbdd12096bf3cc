package redis

import (
	"context"
	"testing"
	"time"

	"order-relay-bot/pkg/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T, ttl time.Duration) (*Storage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(s.Close)
	return s, mr
}

func TestStateRoundTrip(t *testing.T) {
	s, mr := newTestStorage(t, time.Hour)
	ctx := context.Background()

	state, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, state)

	sideOne := "front"
	require.NoError(t, s.Set(ctx, 42, &models.UserState{Stage: models.StageAwaitingSideTwo, SideOne: &sideOne}))
	assert.Equal(t, time.Hour, mr.TTL("conversation:42"))

	state, err = s.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.StageAwaitingSideTwo, state.Stage)
	require.NotNil(t, state.SideOne)
	assert.Equal(t, "front", *state.SideOne)

	require.NoError(t, s.Drop(ctx, 42))
	state, err = s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestStateExpires(t *testing.T) {
	s, mr := newTestStorage(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, 1, &models.UserState{Stage: models.StageAwaitingSideOne}))
	mr.FastForward(2 * time.Minute)

	state, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestStateCorrupted(t *testing.T) {
	s, mr := newTestStorage(t, 0)
	require.NoError(t, mr.Set("conversation:7", "{not json"))

	_, err := s.Get(context.Background(), 7)
	assert.Error(t, err)
}

func TestMarkSeen(t *testing.T) {
	s, mr := newTestStorage(t, 0)
	ctx := context.Background()

	isNew, err := s.MarkSeen(ctx, "0001-1")
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = s.MarkSeen(ctx, "0001-1")
	require.NoError(t, err)
	assert.False(t, isNew)

	assert.Equal(t, DefaultPostingTTL, mr.TTL("ozon:posting:0001-1"))
}

func TestUnavailable(t *testing.T) {
	s, mr := newTestStorage(t, 0)
	mr.Close()

	ctx := context.Background()
	assert.Error(t, s.Ping(ctx))
	_, err := s.Get(ctx, 1)
	assert.Error(t, err)
	_, err = s.MarkSeen(ctx, "x")
	assert.Error(t, err)
}
