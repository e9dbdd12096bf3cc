package state_manager

import (
	"context"
	"errors"
	"testing"

	"order-relay-bot/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*MemoryStore
	getErr, setErr, dropErr error
}

func (f *failingStore) Get(ctx context.Context, userID int64) (*models.UserState, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryStore.Get(ctx, userID)
}

func (f *failingStore) Set(ctx context.Context, userID int64, state *models.UserState) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStore.Set(ctx, userID, state)
}

func (f *failingStore) Drop(ctx context.Context, userID int64) error {
	if f.dropErr != nil {
		return f.dropErr
	}
	return f.MemoryStore.Drop(ctx, userID)
}

func TestConversationFullFlow(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewConversation(store)

	require.NoError(t, c.Start(ctx, 42))

	out, err := c.Answer(ctx, 42, "Лицо")
	require.NoError(t, err)
	assert.Equal(t, Outcome{Consumed: true, Next: models.StageAwaitingSideTwo}, out)

	out, err = c.Answer(ctx, 42, "Оборот")
	require.NoError(t, err)
	assert.Equal(t, Outcome{Consumed: true, Completed: true, SideOne: "Лицо", SideTwo: "Оборот"}, out)

	assert.Zero(t, store.Len())
}

func TestConversationRestartResetsProgress(t *testing.T) {
	ctx := context.Background()
	c := NewConversation(NewMemoryStore())

	require.NoError(t, c.Start(ctx, 1))
	require.NoError(t, c.Start(ctx, 1))

	_, err := c.Answer(ctx, 1, "a")
	require.NoError(t, err)

	// restart mid-flow drops the first answer
	require.NoError(t, c.Start(ctx, 1))
	out, err := c.Answer(ctx, 1, "b")
	require.NoError(t, err)
	assert.False(t, out.Completed)
	assert.Equal(t, models.StageAwaitingSideTwo, out.Next)

	out, err = c.Answer(ctx, 1, "c")
	require.NoError(t, err)
	assert.True(t, out.Completed)
	assert.Equal(t, "b", out.SideOne)
	assert.Equal(t, "c", out.SideTwo)
}

func TestConversationIgnoresCommandsAndStrangers(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewConversation(store)

	out, err := c.Answer(ctx, 5, "hello")
	require.NoError(t, err)
	assert.False(t, out.Consumed)

	require.NoError(t, c.Start(ctx, 5))
	for _, text := range []string{"/faq", "/history", "/"} {
		out, err = c.Answer(ctx, 5, text)
		require.NoError(t, err)
		assert.False(t, out.Consumed, text)
	}

	state, err := store.Get(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.StageAwaitingSideOne, state.Stage)
	assert.Nil(t, state.SideOne)
}

func TestConversationUsersAreIndependent(t *testing.T) {
	ctx := context.Background()
	c := NewConversation(NewMemoryStore())

	require.NoError(t, c.Start(ctx, 1))
	require.NoError(t, c.Start(ctx, 2))

	_, err := c.Answer(ctx, 1, "one-a")
	require.NoError(t, err)

	out, err := c.Answer(ctx, 2, "two-a")
	require.NoError(t, err)
	assert.Equal(t, models.StageAwaitingSideTwo, out.Next)

	out, err = c.Answer(ctx, 1, "one-b")
	require.NoError(t, err)
	assert.Equal(t, "one-a", out.SideOne)
}

func TestConversationUnknownStageIsDropped(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, 3, &models.UserState{Stage: "legacy"}))

	out, err := NewConversation(store).Answer(ctx, 3, "text")
	require.NoError(t, err)
	assert.False(t, out.Consumed)
	assert.Zero(t, store.Len())
}

func TestConversationStoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("start", func(t *testing.T) {
		c := NewConversation(&failingStore{MemoryStore: NewMemoryStore(), setErr: boom})
		assert.ErrorIs(t, c.Start(ctx, 1), boom)
	})

	t.Run("get", func(t *testing.T) {
		c := NewConversation(&failingStore{MemoryStore: NewMemoryStore(), getErr: boom})
		_, err := c.Answer(ctx, 1, "x")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("drop on completion", func(t *testing.T) {
		fs := &failingStore{MemoryStore: NewMemoryStore()}
		c := NewConversation(fs)
		require.NoError(t, c.Start(ctx, 1))
		_, err := c.Answer(ctx, 1, "a")
		require.NoError(t, err)

		fs.dropErr = boom
		out, err := c.Answer(ctx, 1, "b")
		assert.ErrorIs(t, err, boom)
		assert.False(t, out.Completed)
	})
}
