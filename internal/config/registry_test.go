package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "wgadmin") {
		t.Errorf("GetConfigDir() = %v, should contain 'wgadmin'", configDir)
	}

	if runtime.GOOS == "linux" {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		configDir, _ = GetConfigDir()
		if configDir != filepath.Join("/tmp/xdg", "wgadmin") {
			t.Errorf("GetConfigDir() = %v, want XDG_CONFIG_HOME/wgadmin", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Version != 1 {
		t.Errorf("Version = %v, want 1", cfg.Version)
	}
	if cfg.Server.BaseURL != "http://localhost:9191" {
		t.Errorf("Server.BaseURL = %v, want http://localhost:9191", cfg.Server.BaseURL)
	}
	if cfg.Server.Timeout != 15*time.Second {
		t.Errorf("Server.Timeout = %v, want 15s", cfg.Server.Timeout)
	}
	if cfg.Auth.Username != "admin" {
		t.Errorf("Auth.Username = %v, want admin", cfg.Auth.Username)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.BaseURL != Default().Server.BaseURL {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadFrom_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `version: 1
server:
  base_url: http://vpn.lan:9191
  timeout: 5s
auth:
  token_store: file
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.BaseURL != "http://vpn.lan:9191" {
		t.Errorf("Server.BaseURL = %v", cfg.Server.BaseURL)
	}
	if cfg.Server.Timeout != 5*time.Second {
		t.Errorf("Server.Timeout = %v, want 5s", cfg.Server.Timeout)
	}
	if cfg.Auth.TokenStore != "file" {
		t.Errorf("Auth.TokenStore = %v, want file", cfg.Auth.TokenStore)
	}
	// Fields absent from the file keep their defaults
	if cfg.Auth.Username != "admin" {
		t.Errorf("Auth.Username = %v, want default admin", cfg.Auth.Username)
	}
}

func TestLoadFrom_BadVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("version: 2\n"), 0600)

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should reject an unknown version")
	}
}

func TestPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("version: 1\nserver:\n  base_url: http://file:9191\n"), 0600)

	t.Setenv(EnvAPIURL, "http://env:9191")
	t.Setenv(EnvUsername, "")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	cfg.ApplyEnv()

	if cfg.Server.BaseURL != "http://env:9191" {
		t.Errorf("env should override file, got %v", cfg.Server.BaseURL)
	}
	if cfg.Auth.Username != "admin" {
		t.Errorf("empty env should not override, got %v", cfg.Auth.Username)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad url", func(c *Config) { c.Server.BaseURL = "not a url" }, true},
		{"empty url", func(c *Config) { c.Server.BaseURL = "" }, true},
		{"bad store", func(c *Config) { c.Auth.TokenStore = "vault" }, true},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"debug level", func(c *Config) { c.Logging.Level = "debug" }, false},
		{"negative timeout", func(c *Config) { c.Server.Timeout = -time.Second }, true},
		{"no timeout", func(c *Config) { c.Server.Timeout = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Server.BaseURL = "http://saved:9191"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat config: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %o, want 600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be removed after save")
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.Server.BaseURL != "http://saved:9191" {
		t.Errorf("Server.BaseURL = %v after reload", loaded.Server.BaseURL)
	}
	if loaded.Server.Timeout != 15*time.Second {
		t.Errorf("Server.Timeout = %v after reload, want 15s", loaded.Server.Timeout)
	}
	if !Exists(path) {
		t.Error("Exists() = false after save")
	}
}
