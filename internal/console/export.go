package console

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/wgadmin/wgadmin/internal/api"
	"github.com/wgadmin/wgadmin/internal/logging"
)

// ErrNoConfig is returned when a created client has no generated config,
// which happens when the operator supplied their own public key
var ErrNoConfig = errors.New("no config was generated for this client")

// NoConfigNotice explains a missing config to the operator
const NoConfigNotice = "No config was generated (External key used). Please use your client-side generated configuration."

// SaveConfig writes the client's WireGuard config to dir as wg-<name>.conf
// and returns the path written. The file holds a private key, so it is
// created 0600 and written atomically.
func SaveConfig(dir string, created *api.CreateClientResponse) (string, error) {
	if created == nil || !created.HasConfig() {
		return "", ErrNoConfig
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	path := filepath.Join(dir, safeFileName(created.ConfigFileName()))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(created.Config), 0o600); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to save config: %w", err)
	}

	logging.Info("Saved client config",
		zap.String("name", created.Name),
		zap.String("path", path),
	)
	return path, nil
}

// safeFileName keeps a client name from escaping the download directory
func safeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, name)
}
