package state_manager

import (
	"context"

	"order-relay-bot/internal/storage/redis"
	"order-relay-bot/pkg/models"
)

// Store keeps conversation state per user. Get returns (nil, nil) when the
// user has no open conversation.
type Store interface {
	Get(ctx context.Context, userID int64) (*models.UserState, error)
	Set(ctx context.Context, userID int64, state *models.UserState) error
	Drop(ctx context.Context, userID int64) error
}

var (
	_ Store = (*redis.Storage)(nil)
	_ Store = (*MemoryStore)(nil)
)
