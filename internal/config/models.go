package config

import (
	"time"

	"github.com/wgadmin/wgadmin/internal/api"
)

// CurrentVersion is the only config schema version understood
const CurrentVersion = 1

// Default values
const (
	DefaultUsername    = "admin"
	DefaultTokenStore  = "auto"
	DefaultDownloadDir = "."
)

// Config represents the entire user configuration file
type Config struct {
	Version int           `yaml:"version" validate:"eq=1"`
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// ServerConfig locates the admin API
type ServerConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"` // 0 disables the timeout
}

// AuthConfig holds sign-in preferences.
// Passwords are NEVER stored in the config file.
type AuthConfig struct {
	Username   string `yaml:"username" validate:"required"`
	TokenStore string `yaml:"token_store" validate:"oneof=auto keyring file memory"`
}

// OutputConfig controls where generated client configs are written
type OutputConfig struct {
	DownloadDir string `yaml:"download_dir" validate:"required"`
}

// LoggingConfig mirrors the --log-level / --log-file flags
type LoggingConfig struct {
	Level string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	File  string `yaml:"file,omitempty"`
}

// Default returns a Config populated with compiled-in defaults
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Server: ServerConfig{
			BaseURL: api.DefaultBaseURL,
			Timeout: api.DefaultTimeout,
		},
		Auth: AuthConfig{
			Username:   DefaultUsername,
			TokenStore: DefaultTokenStore,
		},
		Output: OutputConfig{
			DownloadDir: DefaultDownloadDir,
		},
	}
}
