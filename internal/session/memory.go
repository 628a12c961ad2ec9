// internal/session/memory.go
package session

import (
	"context"
	"encoding/json"
	"sync"

	"lease-concierge/internal/models"
)

// MemoryStore holds sessions in a map. Sessions round-trip through JSON so
// the store has the same copy semantics as the Redis store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*models.Session, error) {
	s.mu.RLock()
	data, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *MemoryStore) Save(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sessions[sess.ID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}
