package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wgadmin/wgadmin/internal/logging"
)

const (
	// TokenKey is the single storage key for the bearer token
	TokenKey = "wg_token"

	// ExpiryKey stores when the token expires, as RFC 3339
	ExpiryKey = "wg_token_expiry"

	// ServiceName identifies wgadmin entries in the OS keyring
	ServiceName = "wgadmin"
)

// Backend kinds accepted by Open
const (
	KindAuto    = "auto"
	KindKeyring = "keyring"
	KindFile    = "file"
	KindMemory  = "memory"
)

// ErrNoToken is returned by Load when nothing is stored
var ErrNoToken = errors.New("no stored token")

// Store persists at most one bearer token
type Store interface {
	// Load returns the stored token or ErrNoToken
	Load() (string, error)
	// Save replaces the stored token
	Save(token string) error
	// SaveExpiry records when the stored token expires; the zero time removes it
	SaveExpiry(expiresAt time.Time) error
	// LoadExpiry returns the recorded expiry, or the zero time when none is stored
	LoadExpiry() (time.Time, error)
	// Clear removes the stored token and its expiry; clearing an empty store is not an error
	Clear() error
	// Kind names the backend, e.g. "keyring"
	Kind() string
}

// Kinds lists the accepted backend names
func Kinds() []string {
	return []string{KindAuto, KindKeyring, KindFile, KindMemory}
}

// Open returns the store for kind. dir is the config directory used by the
// file backend.
func Open(kind, dir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindAuto:
		if keyringAvailable() {
			return NewKeyringStore(), nil
		}
		logging.Info("OS keyring unavailable, storing token in file",
			zap.String("dir", dir),
		)
		return NewFileStore(dir), nil
	case KindKeyring:
		return NewKeyringStore(), nil
	case KindFile:
		return NewFileStore(dir), nil
	case KindMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown token store %q (want one of %s)", kind, strings.Join(Kinds(), ", "))
	}
}

// LoadOptional returns the stored token, or "" when none is stored.
// Backend failures are logged and treated as "no token".
func LoadOptional(s Store) string {
	token, err := s.Load()
	if err != nil {
		if !errors.Is(err, ErrNoToken) {
			logging.Warn("Failed to read stored token",
				zap.String("store", s.Kind()),
				zap.Error(err),
			)
		}
		return ""
	}
	return token
}

// LoadExpiryOptional returns the recorded expiry, or the zero time.
// Backend failures and unreadable values are logged and treated as "no expiry".
func LoadExpiryOptional(s Store) time.Time {
	expiresAt, err := s.LoadExpiry()
	if err != nil {
		logging.Warn("Failed to read stored token expiry",
			zap.String("store", s.Kind()),
			zap.Error(err),
		)
		return time.Time{}
	}
	return expiresAt
}

func formatExpiry(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseExpiry(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored expiry %q: %w", value, err)
	}
	return t, nil
}
