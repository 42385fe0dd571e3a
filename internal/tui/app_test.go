package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wgadmin/wgadmin/internal/api"
	"github.com/wgadmin/wgadmin/internal/apitest"
	"github.com/wgadmin/wgadmin/internal/console"
	"github.com/wgadmin/wgadmin/internal/session"
)

func newTestApp(t *testing.T, store *console.Store, baseURL string) AppModel {
	t.Helper()
	m := NewAppModel(Options{Store: store, BaseURL: baseURL, Username: apitest.DefaultUsername, DownloadDir: t.TempDir()})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(AppModel)
}

func bootstrap(t *testing.T, m AppModel) AppModel {
	t.Helper()
	next, _ := m.Update(mustCmd(t, bootstrapCmd(m.store)))
	return next.(AppModel)
}

func TestApp_StartsLoading(t *testing.T) {
	store, srv := newTestStore(t)
	m := newTestApp(t, store, srv.URL())

	if m.CurrentScreen != ScreenLoading {
		t.Errorf("CurrentScreen = %v, want loading", m.CurrentScreen)
	}
	if !strings.Contains(m.View(), "Connecting to "+srv.URL()) {
		t.Error("loading screen should name the API")
	}
}

func TestApp_BootstrapWithoutToken(t *testing.T) {
	store, srv := newTestStore(t)
	m := bootstrap(t, newTestApp(t, store, srv.URL()))

	if m.CurrentScreen != ScreenLogin {
		t.Errorf("CurrentScreen = %v, want login", m.CurrentScreen)
	}
}

func TestApp_BootstrapWithStoredToken(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed("alice", "bob")
	srv.IssueToken(apitest.DefaultToken)

	tokens := session.NewMemoryStore()
	if err := tokens.Save(apitest.DefaultToken); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	store := console.NewStore(api.NewClient(srv.URL()), tokens)

	m := bootstrap(t, newTestApp(t, store, srv.URL()))
	if m.CurrentScreen != ScreenDashboard {
		t.Fatalf("CurrentScreen = %v, want dashboard", m.CurrentScreen)
	}
	if got := len(m.Dashboard.Table.Rows()); got != 2 {
		t.Errorf("rows = %d, want 2", got)
	}
	if m.Dashboard.Width != 120 {
		t.Errorf("dashboard width = %d, want the terminal size carried over", m.Dashboard.Width)
	}
}

func TestApp_LoginThenLogout(t *testing.T) {
	store, srv := newTestStore(t)
	srv.Seed("alice")
	m := bootstrap(t, newTestApp(t, store, srv.URL()))

	for _, r := range apitest.DefaultPassword {
		next, _ := m.Update(runes(string(r)))
		m = next.(AppModel)
	}
	next, cmd := m.Update(keyOf(tea.KeyEnter))
	m = next.(AppModel)
	next, _ = m.Update(mustCmd(t, cmd))
	m = next.(AppModel)

	if m.CurrentScreen != ScreenDashboard {
		t.Fatalf("CurrentScreen = %v after login, want dashboard", m.CurrentScreen)
	}

	next, _ = m.Update(runes("L"))
	m = next.(AppModel)
	if m.CurrentScreen != ScreenLogin {
		t.Errorf("CurrentScreen = %v after logout, want login", m.CurrentScreen)
	}
	if m.Login.PasswordInput.Value() != "" {
		t.Error("the password must not survive a logout")
	}
}

func TestApp_CtrlCQuits(t *testing.T) {
	store, srv := newTestStore(t)
	m := bootstrap(t, newTestApp(t, store, srv.URL()))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, ok := mustCmd(t, cmd).(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit from any screen")
	}
}

func TestApp_StatusLine(t *testing.T) {
	store, srv := newTestStore(t)
	m := newTestApp(t, store, srv.URL())

	if got := m.statusLine(); !strings.Contains(got, "API unknown") {
		t.Errorf("statusLine() = %q, want unknown before the first check", got)
	}

	next, _ := m.Update(mustCmd(t, checkHealthCmd(store)))
	m = next.(AppModel)
	if got := m.statusLine(); !strings.Contains(got, "API healthy") {
		t.Errorf("statusLine() = %q, want healthy", got)
	}

	srv.SetHealthy(false)
	store.CheckHealth(t.Context())
	if got := m.statusLine(); !strings.Contains(got, "API unreachable") {
		t.Errorf("statusLine() = %q, want unreachable", got)
	}
}
