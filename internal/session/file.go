package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps the token in <dir>/wg_token and its expiry in
// <dir>/wg_token_expiry, both with owner-only permissions
type FileStore struct {
	path       string
	expiryPath string
}

// NewFileStore creates a file-backed store inside dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		path:       filepath.Join(dir, TokenKey),
		expiryPath: filepath.Join(dir, ExpiryKey),
	}
}

// Kind implements Store
func (s *FileStore) Kind() string {
	return KindFile
}

// Path returns the token file location
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Store
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Save implements Store. The file is replaced atomically.
func (s *FileStore) Save(token string) error {
	if token == "" {
		return s.Clear()
	}
	if err := writeFileAtomic(s.path, token); err != nil {
		return fmt.Errorf("failed to save token file: %w", err)
	}
	return nil
}

// SaveExpiry implements Store
func (s *FileStore) SaveExpiry(expiresAt time.Time) error {
	if expiresAt.IsZero() {
		return removeFile(s.expiryPath)
	}
	if err := writeFileAtomic(s.expiryPath, formatExpiry(expiresAt)); err != nil {
		return fmt.Errorf("failed to save token expiry file: %w", err)
	}
	return nil
}

// LoadExpiry implements Store
func (s *FileStore) LoadExpiry() (time.Time, error) {
	data, err := os.ReadFile(s.expiryPath)
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read token expiry file: %w", err)
	}
	return parseExpiry(string(data))
}

// Clear implements Store
func (s *FileStore) Clear() error {
	if err := removeFile(s.path); err != nil {
		return err
	}
	return removeFile(s.expiryPath)
}

func writeFileAtomic(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", filepath.Base(path), err)
	}
	return nil
}
