package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wgadmin/wgadmin/internal/api"
	"github.com/wgadmin/wgadmin/internal/console"
)

func createdWithConfig() api.CreateClientResponse {
	return api.CreateClientResponse{
		Client:     api.Client{ID: "4", Name: "laptop", IP: "10.0.0.5"},
		Config:     "[Interface]\nAddress = 10.0.0.5/32\n",
		PrivateKey: "secret",
	}
}

func TestConfigView_Copy(t *testing.T) {
	var clip string
	v := NewConfigView(createdWithConfig(), t.TempDir())
	v.writeClip = func(s string) error {
		clip = s
		return nil
	}

	v, cmd := v.Update(runes("c"))
	if clip != v.Created.Config {
		t.Errorf("clipboard = %q, want the config", clip)
	}
	if !v.Copied {
		t.Error("Copied = false after copy")
	}
	if cmd == nil {
		t.Fatal("copy should schedule the acknowledgment reset")
	}
	if !strings.Contains(v.View(80), "Copied!") {
		t.Error("View() should acknowledge the copy")
	}

	// A second copy supersedes the first reset
	v, _ = v.Update(runes("c"))
	v, _ = v.Update(copyResetMsg{seq: 1})
	if !v.Copied {
		t.Error("a stale reset must not clear a newer acknowledgment")
	}
	v, _ = v.Update(copyResetMsg{seq: 2})
	if v.Copied {
		t.Error("Copied should clear after its reset")
	}
}

func TestConfigView_CopyUnavailable(t *testing.T) {
	v := NewConfigView(createdWithConfig(), t.TempDir())
	v.writeClip = func(string) error { return errors.New("no xclip") }

	v, cmd := v.Update(runes("c"))
	if v.Copied || cmd != nil {
		t.Error("a failed copy must not acknowledge")
	}
	if !strings.Contains(v.Err, "no xclip") {
		t.Errorf("Err = %q, want the clipboard error", v.Err)
	}
}

func TestConfigView_Save(t *testing.T) {
	dir := t.TempDir()
	v := NewConfigView(createdWithConfig(), dir)

	v, _ = v.Update(runes("w"))
	if v.Err != "" {
		t.Fatalf("Err = %q", v.Err)
	}
	want := filepath.Join(dir, "wg-laptop.conf")
	if v.SavedPath != want {
		t.Errorf("SavedPath = %q, want %q", v.SavedPath, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != v.Created.Config {
		t.Errorf("saved config = %q, want %q", data, v.Created.Config)
	}
}

func TestConfigView_NoConfig(t *testing.T) {
	created := api.CreateClientResponse{Client: api.Client{ID: "5", Name: "router", IP: "10.0.0.6"}}
	v := NewConfigView(created, t.TempDir())
	v.writeClip = func(string) error {
		t.Error("nothing should be copied without a config")
		return nil
	}

	v, _ = v.Update(runes("c"))
	v, _ = v.Update(runes("w"))
	if v.SavedPath != "" {
		t.Error("nothing should be saved without a config")
	}

	view := v.View(200)
	if !strings.Contains(view, console.NoConfigNotice) {
		t.Errorf("View() should explain the missing config, got:\n%s", view)
	}
	if !strings.Contains(view, "10.0.0.6") {
		t.Error("View() should show the assigned IP")
	}
	if len(v.HelpKeys()) != 1 {
		t.Errorf("HelpKeys() = %d bindings, want only close", len(v.HelpKeys()))
	}
}
