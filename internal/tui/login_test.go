package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wgadmin/wgadmin/internal/apitest"
	"github.com/wgadmin/wgadmin/internal/console"
)

func TestLoginModel_PrefillFocusesPassword(t *testing.T) {
	store, _ := newTestStore(t)

	m := NewLoginModel(store, "http://api", "admin")
	if !m.PasswordInput.Focused() || m.UsernameInput.Focused() {
		t.Error("password should be focused when the username is prefilled")
	}

	m = NewLoginModel(store, "http://api", "")
	if !m.UsernameInput.Focused() {
		t.Error("username should be focused when it is empty")
	}
}

func TestLoginModel_Submit(t *testing.T) {
	store, _ := newTestStore(t)
	m := NewLoginModel(store, "http://api", apitest.DefaultUsername)

	// No password yet: nothing happens
	m, cmd := m.Update(keyOf(tea.KeyEnter))
	if cmd != nil || m.Submitting {
		t.Fatal("enter with an empty password should not submit")
	}

	m = typeInto(m, apitest.DefaultPassword)
	m, cmd = m.Update(keyOf(tea.KeyEnter))
	if !m.Submitting {
		t.Error("Submitting = false after enter")
	}

	msg := mustCmd(t, cmd)
	done, ok := msg.(loginDoneMsg)
	if !ok {
		t.Fatalf("command returned %T, want loginDoneMsg", msg)
	}
	if done.err != nil {
		t.Fatalf("login error = %v", done.err)
	}

	m, _ = m.Update(msg)
	if m.Submitting {
		t.Error("Submitting should clear once the login resolves")
	}
	if m.PasswordInput.Value() != "" {
		t.Error("password should be cleared after submitting")
	}
	if !store.IsAuthenticated() {
		t.Error("store should be authenticated")
	}
}

func TestLoginModel_WrongPassword(t *testing.T) {
	store, _ := newTestStore(t)
	m := NewLoginModel(store, "http://api", apitest.DefaultUsername)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m = typeInto(m, "nope")
	m, cmd := m.Update(keyOf(tea.KeyEnter))
	m, _ = m.Update(mustCmd(t, cmd))

	if store.IsAuthenticated() {
		t.Fatal("store should not be authenticated")
	}
	if got := store.Snapshot().Error; got != console.MsgInvalidCredentials {
		t.Errorf("banner = %q, want %q", got, console.MsgInvalidCredentials)
	}
	if !strings.Contains(m.View(""), console.MsgInvalidCredentials) {
		t.Error("View() should show the invalid credentials banner")
	}
}

func TestLoginModel_EnterOnUsernameMovesToPassword(t *testing.T) {
	store, _ := newTestStore(t)
	m := NewLoginModel(store, "http://api", "")
	m = typeInto(m, "admin")

	m, cmd := m.Update(keyOf(tea.KeyEnter))
	if m.Submitting {
		t.Error("enter on the username should not submit")
	}
	if cmd == nil || !m.PasswordInput.Focused() {
		t.Error("enter on the username should move focus to the password")
	}
}

func TestLoginModel_IgnoresKeysWhileSubmitting(t *testing.T) {
	store, _ := newTestStore(t)
	m := NewLoginModel(store, "http://api", "admin")
	m.Submitting = true

	m, cmd := m.Update(runes("x"))
	if cmd != nil || m.PasswordInput.Value() != "" {
		t.Error("typing should be ignored while signing in")
	}
}
