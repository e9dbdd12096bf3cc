package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"order-relay-bot/pkg/models"

	"github.com/redis/go-redis/v9"
)

const (
	stateKeyPrefix   = "conversation:"
	postingKeyPrefix = "ozon:posting:"

	DefaultStateTTL   = 24 * time.Hour
	DefaultPostingTTL = 7 * 24 * time.Hour
)

type Storage struct {
	client     *redis.Client
	stateTTL   time.Duration
	postingTTL time.Duration
}

// New creates a new Redis client
func New(addr, password string, db int, stateTTL time.Duration) *Storage {
	return NewWithClient(redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     100, // Increase connection pool size
		MinIdleConns: 10,  // Keep minimum connections ready
	}), stateTTL)
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, stateTTL time.Duration) *Storage {
	if stateTTL <= 0 {
		stateTTL = DefaultStateTTL
	}
	return &Storage{
		client:     client,
		stateTTL:   stateTTL,
		postingTTL: DefaultPostingTTL,
	}
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *Storage) Close() {
	if s.client != nil {
		_ = s.client.Close()
	}
}

// Get returns nil state when the user has no conversation.
func (s *Storage) Get(ctx context.Context, userID int64) (*models.UserState, error) {
	data, err := s.client.Get(ctx, buildStateKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}

	var state models.UserState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal failure: %w", err)
	}
	return &state, nil
}

func (s *Storage) Set(ctx context.Context, userID int64, state *models.UserState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	return s.client.Set(ctx, buildStateKey(userID), data, s.stateTTL).Err()
}

func (s *Storage) Drop(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, buildStateKey(userID)).Err()
}

// MarkSeen records a marketplace posting and reports whether it was new.
func (s *Storage) MarkSeen(ctx context.Context, postingNumber string) (bool, error) {
	ok, err := s.client.SetNX(ctx, postingKeyPrefix+postingNumber, "1", s.postingTTL).Result()
	if err != nil {
		return false, fmt.Errorf("mark posting seen: %w", err)
	}
	return ok, nil
}

func buildStateKey(userID int64) string {
	return fmt.Sprintf("%s%d", stateKeyPrefix, userID)
}
