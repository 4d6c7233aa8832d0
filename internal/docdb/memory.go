package docdb

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store for tests and local development.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]Session // keyed by token
	docs     map[string]Document
}

func NewMemory() *Memory {
	return &Memory{
		sessions: map[string]Session{},
		docs:     map[string]Document{},
	}
}

func (m *Memory) CreateSession(_ context.Context) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Session{
		ID:        uuid.NewString(),
		Token:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	m.sessions[s.Token] = s
	return s, nil
}

func (m *Memory) SessionByToken(_ context.Context, token string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *Memory) GetDocument(_ context.Context, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return d, nil
}

func (m *Memory) PutDocument(_ context.Context, id string, body json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = Document{ID: id, Body: append(json.RawMessage{}, body...), UpdatedAt: time.Now().UTC()}
	return nil
}

func (m *Memory) UpdateDocument(_ context.Context, id string, body json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	m.docs[id] = Document{ID: id, Body: append(json.RawMessage{}, body...), UpdatedAt: time.Now().UTC()}
	return nil
}

func (m *Memory) PruneSessions(_ context.Context, maxAge time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().UTC().Add(-maxAge)
	var pruned int64
	for token, s := range m.sessions {
		if _, hasDoc := m.docs[s.ID]; hasDoc {
			continue
		}
		if s.CreatedAt.Before(cutoff) {
			delete(m.sessions, token)
			pruned++
		}
	}
	return pruned, nil
}

var _ Store = (*Memory)(nil)
