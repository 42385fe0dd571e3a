package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/zalando/go-keyring"
)

const probeKey = "wgadmin-probe"

// KeyringStore keeps the token in the OS credential store
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a keyring-backed store
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: ServiceName}
}

// Kind implements Store
func (s *KeyringStore) Kind() string {
	return KindKeyring
}

// Load implements Store
func (s *KeyringStore) Load() (string, error) {
	token, err := keyring.Get(s.service, TokenKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("keyring read failed: %w", err)
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Save implements Store
func (s *KeyringStore) Save(token string) error {
	if token == "" {
		return s.Clear()
	}
	if err := keyring.Set(s.service, TokenKey, token); err != nil {
		return fmt.Errorf("keyring write failed: %w", err)
	}
	return nil
}

// SaveExpiry implements Store
func (s *KeyringStore) SaveExpiry(expiresAt time.Time) error {
	if expiresAt.IsZero() {
		return s.delete(ExpiryKey)
	}
	if err := keyring.Set(s.service, ExpiryKey, formatExpiry(expiresAt)); err != nil {
		return fmt.Errorf("keyring write failed: %w", err)
	}
	return nil
}

// LoadExpiry implements Store
func (s *KeyringStore) LoadExpiry() (time.Time, error) {
	value, err := keyring.Get(s.service, ExpiryKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("keyring read failed: %w", err)
	}
	return parseExpiry(value)
}

// Clear implements Store
func (s *KeyringStore) Clear() error {
	if err := s.delete(TokenKey); err != nil {
		return err
	}
	return s.delete(ExpiryKey)
}

func (s *KeyringStore) delete(key string) error {
	err := keyring.Delete(s.service, key)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete failed: %w", err)
	}
	return nil
}

// keyringAvailable writes and removes a probe entry
func keyringAvailable() bool {
	if err := keyring.Set(ServiceName, probeKey, "probe"); err != nil {
		return false
	}
	_ = keyring.Delete(ServiceName, probeKey)
	return true
}
