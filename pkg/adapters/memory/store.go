// Package memory provides in-memory stores, handy for tests and ephemeral
// deployments.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// CheckpointStore implements ports.CheckpointStore in memory.
// Safe for concurrent use.
type CheckpointStore struct {
	data map[string]*domain.Checkpoint
	mu   sync.RWMutex
}

// NewCheckpointStore creates a new in-memory checkpoint store.
func NewCheckpointStore() *CheckpointStore {
	return &CheckpointStore{
		data: make(map[string]*domain.Checkpoint),
	}
}

// Save persists the checkpoint in memory.
func (s *CheckpointStore) Save(ctx context.Context, runID string, cp *domain.Checkpoint) error {
	// Deep copy to ensure isolation, similar to serialization
	copied := copyCheckpoint(cp)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[runID] = copied
	return nil
}

// Load retrieves the checkpoint from memory.
func (s *CheckpointStore) Load(ctx context.Context, runID string) (*domain.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp, ok := s.data[runID]
	if !ok {
		return nil, domain.ErrCheckpointNotFound
	}

	// Copy on read so the caller can't mutate store state by pointer
	return copyCheckpoint(cp), nil
}

// List returns the known run IDs.
func (s *CheckpointStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]string, 0, len(s.data))
	for id := range s.data {
		runs = append(runs, id)
	}
	return runs, nil
}

func copyCheckpoint(cp *domain.Checkpoint) *domain.Checkpoint {
	copied := *cp
	copied.TrainingHistory = make([]domain.EpisodeRecord, len(cp.TrainingHistory))
	copy(copied.TrainingHistory, cp.TrainingHistory)
	return &copied
}

// ConversationStore implements ports.ConversationStore in memory.
// Safe for concurrent use.
type ConversationStore struct {
	data map[string][]domain.TurnItem
	mu   sync.RWMutex
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		data: make(map[string][]domain.TurnItem),
	}
}

// Save persists the transcript in memory.
func (s *ConversationStore) Save(ctx context.Context, conversationID string, items []domain.TurnItem) error {
	copied := copyItems(items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[conversationID] = copied
	return nil
}

// Load retrieves the transcript from memory.
func (s *ConversationStore) Load(ctx context.Context, conversationID string) ([]domain.TurnItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.data[conversationID]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return copyItems(items), nil
}

// Delete removes the transcript.
func (s *ConversationStore) Delete(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, conversationID)
	return nil
}

func copyItems(items []domain.TurnItem) []domain.TurnItem {
	copied := make([]domain.TurnItem, len(items))
	for i, item := range items {
		copied[i] = item
		if item.Call != nil {
			call := *item.Call
			copied[i].Call = &call
		}
		if item.Result != nil {
			result := *item.Result
			copied[i].Result = &result
		}
	}
	return copied
}
