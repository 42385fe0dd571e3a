package console

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wgadmin/wgadmin/internal/api"
)

func TestSaveConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	created := &api.CreateClientResponse{
		Client: api.Client{ID: "3", Name: "laptop"},
		Config: "[Interface]\nPrivateKey = x\n",
	}

	path, err := SaveConfig(dir, created)
	if err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	if want := filepath.Join(dir, "wg-laptop.conf"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != created.Config {
		t.Errorf("content = %q, want %q", data, created.Config)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o, want 600", perm)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain")
	}
}

func TestSaveConfig_NoConfig(t *testing.T) {
	dir := t.TempDir()
	created := &api.CreateClientResponse{Client: api.Client{ID: "3", Name: "phone"}}

	if _, err := SaveConfig(dir, created); !errors.Is(err, ErrNoConfig) {
		t.Errorf("SaveConfig() error = %v, want ErrNoConfig", err)
	}
	if _, err := SaveConfig(dir, nil); !errors.Is(err, ErrNoConfig) {
		t.Errorf("SaveConfig(nil) error = %v, want ErrNoConfig", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("directory has %d entries, want none", len(entries))
	}
}

func TestSaveConfig_NameCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	created := &api.CreateClientResponse{
		Client: api.Client{Name: "../evil"},
		Config: "[Interface]\n",
	}

	path, err := SaveConfig(dir, created)
	if err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("path = %q, want it inside %q", path, dir)
	}
}
