package session

import (
	"sync"
	"time"
)

// MemoryStore keeps the token for the life of the process
type MemoryStore struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Kind implements Store
func (s *MemoryStore) Kind() string {
	return KindMemory
}

// Load implements Store
func (s *MemoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

// Save implements Store
func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// SaveExpiry implements Store
func (s *MemoryStore) SaveExpiry(expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = expiresAt
	return nil
}

// LoadExpiry implements Store
func (s *MemoryStore) LoadExpiry() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt, nil
}

// Clear implements Store
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiresAt = time.Time{}
	return nil
}
