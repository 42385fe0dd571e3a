package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wgadmin/wgadmin/internal/api"
	"github.com/wgadmin/wgadmin/internal/apitest"
	"github.com/wgadmin/wgadmin/internal/console"
	"github.com/wgadmin/wgadmin/internal/session"
)

// newTestStore returns a store against a fresh fake server, not signed in
func newTestStore(t *testing.T) (*console.Store, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer(t)
	return console.NewStore(api.NewClient(srv.URL()), session.NewMemoryStore()), srv
}

// newSignedInStore returns a signed-in store whose server holds names
func newSignedInStore(t *testing.T, names ...string) (*console.Store, *apitest.Server) {
	t.Helper()
	store, srv := newTestStore(t)
	srv.Seed(names...)
	if err := store.Login(context.Background(), apitest.DefaultUsername, apitest.DefaultPassword); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return store, srv
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func space() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
}

// typeInto feeds s one rune at a time
func typeInto[M interface {
	Update(tea.Msg) (M, tea.Cmd)
}](m M, s string) M {
	for _, r := range s {
		m, _ = m.Update(runes(string(r)))
	}
	return m
}

// mustCmd runs cmd and returns its message
func mustCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return cmd()
}

func names(n int, prefix string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + "-" + string(rune('a'+i))
	}
	return out
}
