// Package session owns live agents keyed by conversation ID and serializes
// access to each one. Engines are single-conversation by design; the manager
// is what lets an HTTP server or REPL multiplex many conversations safely.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Agent is the slice of the chat agent the manager needs.
type Agent interface {
	Chat(ctx context.Context, userMessage string) (string, error)
	History() []domain.TurnItem
	LastToolCalls() []domain.ToolCall
}

// Factory builds a fresh agent for a conversation ID.
type Factory func(conversationID string) (Agent, error)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates conversation access, ensuring safe concurrent
// operations. It uses reference counting to garbage collect unused locks.
type Manager struct {
	factory Factory
	store   ports.ConversationStore // optional transcript persistence

	mu     sync.Mutex
	agents map[string]Agent
	locks  map[string]*lockEntry

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithStore enables transcript persistence after each exchange.
func WithStore(store ports.ConversationStore) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a manager that builds agents through the factory.
func NewManager(factory Factory, opts ...Option) *Manager {
	m := &Manager{
		factory: factory,
		agents:  make(map[string]Agent),
		locks:   make(map[string]*lockEntry),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after
// unlocking.
func (m *Manager) acquire(conversationID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[conversationID]
	if !exists {
		entry = &lockEntry{}
		m.locks[conversationID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches
// zero.
func (m *Manager) release(conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[conversationID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, conversationID)
	}
}

// WithLock executes a function while holding the lock for the conversation.
func (m *Manager) WithLock(ctx context.Context, conversationID string, fn func(context.Context) error) error {
	entry := m.acquire(conversationID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(conversationID)
	}()

	return fn(ctx)
}

// getOrCreate returns the live agent for the conversation, building one
// through the factory on first use. Call only while holding the
// conversation lock.
func (m *Manager) getOrCreate(conversationID string) (Agent, error) {
	m.mu.Lock()
	agent, ok := m.agents[conversationID]
	m.mu.Unlock()
	if ok {
		return agent, nil
	}

	agent, err := m.factory(conversationID)
	if err != nil {
		return nil, fmt.Errorf("create agent for conversation %s: %w", conversationID, err)
	}
	m.mu.Lock()
	m.agents[conversationID] = agent
	m.mu.Unlock()
	return agent, nil
}

// Chat sends a user message to the conversation's agent, creating the agent
// on first use. Exchanges for the same conversation are serialized; separate
// conversations proceed concurrently. When a store is configured the
// transcript is persisted after the exchange.
func (m *Manager) Chat(ctx context.Context, conversationID, userMessage string) (string, error) {
	var response string
	err := m.WithLock(ctx, conversationID, func(ctx context.Context) error {
		agent, err := m.getOrCreate(conversationID)
		if err != nil {
			return err
		}
		response, err = agent.Chat(ctx, userMessage)
		if err != nil {
			return err
		}
		if m.store != nil {
			if err := m.store.Save(ctx, conversationID, agent.History()); err != nil {
				m.logger.Warn("failed to persist transcript",
					"conversation_id", conversationID,
					"err", err,
				)
			}
		}
		return nil
	})
	return response, err
}

// Agent returns the live agent for a conversation.
// Returns domain.ErrConversationNotFound if none exists yet.
func (m *Manager) Agent(conversationID string) (Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	agent, ok := m.agents[conversationID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrConversationNotFound, conversationID)
	}
	return agent, nil
}

// History returns the transcript of a live conversation.
func (m *Manager) History(conversationID string) ([]domain.TurnItem, error) {
	agent, err := m.Agent(conversationID)
	if err != nil {
		return nil, err
	}
	return agent.History(), nil
}

// Delete drops the live agent and, when a store is configured, its persisted
// transcript.
func (m *Manager) Delete(ctx context.Context, conversationID string) error {
	return m.WithLock(ctx, conversationID, func(ctx context.Context) error {
		m.mu.Lock()
		delete(m.agents, conversationID)
		m.mu.Unlock()

		if m.store != nil {
			return m.store.Delete(ctx, conversationID)
		}
		return nil
	})
}

// List returns the IDs of live conversations.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.agents))
	for id := range m.agents {
		ids = append(ids, id)
	}
	return ids
}
