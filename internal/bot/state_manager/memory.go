package state_manager

import (
	"context"
	"sync"

	"order-relay-bot/pkg/models"
)

// MemoryStore keeps conversations for the life of the process. Entries never
// expire; an abandoned conversation stays until it is reset or the process
// restarts.
type MemoryStore struct {
	mu     sync.Mutex
	states map[int64]models.UserState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[int64]models.UserState)}
}

func (m *MemoryStore) Get(_ context.Context, userID int64) (*models.UserState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[userID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (m *MemoryStore) Set(_ context.Context, userID int64, state *models.UserState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[userID] = *state
	return nil
}

func (m *MemoryStore) Drop(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.states, userID)
	return nil
}

// Len is the number of open conversations.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}
