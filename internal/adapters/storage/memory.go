package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps session keys in process memory. It is the default
// backend and the fake used by tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
	closed   bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]map[string]string)}
}

// Set writes one key.
func (s *MemoryStore) Set(_ context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	kv, ok := s.sessions[sessionID]
	if !ok {
		kv = make(map[string]string)
		s.sessions[sessionID] = kv
	}
	kv[key] = value
	return nil
}

// Get reads one key.
func (s *MemoryStore) Get(_ context.Context, sessionID, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", ErrClosed
	}
	v, ok := s.sessions[sessionID][key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

// Delete removes one key.
func (s *MemoryStore) Delete(_ context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.sessions[sessionID], key)
	return nil
}

// Clear removes every key of the session.
func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.sessions, sessionID)
	return nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
