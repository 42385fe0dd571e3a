package tui

import (
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wgadmin/wgadmin/internal/apitest"
	"github.com/wgadmin/wgadmin/internal/console"
)

func newTestDashboard(t *testing.T, clientNames ...string) (DashboardModel, *console.Store, *apitest.Server) {
	t.Helper()
	store, srv := newSignedInStore(t, clientNames...)
	m := NewDashboardModel(store, srv.URL(), t.TempDir())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, store, srv
}

func TestDashboard_Pagination(t *testing.T) {
	m, store, _ := newTestDashboard(t, names(10, "peer")...)

	if got := len(m.Table.Rows()); got != console.PageSize {
		t.Fatalf("rows = %d, want %d", got, console.PageSize)
	}
	if !strings.Contains(m.View(""), "Showing 8 of 10 clients") {
		t.Error("View() should show the pagination summary")
	}

	m, _ = m.Update(keyOf(tea.KeyRight))
	if got := store.Snapshot().Page; got != 2 {
		t.Errorf("page = %d, want 2", got)
	}
	if got := len(m.Table.Rows()); got != 2 {
		t.Errorf("rows on page 2 = %d, want 2", got)
	}

	// Already on the last page
	m, _ = m.Update(keyOf(tea.KeyRight))
	if got := store.Snapshot().Page; got != 2 {
		t.Errorf("page = %d, want it to stay 2", got)
	}

	m, _ = m.Update(runes("1"))
	if got := store.Snapshot().Page; got != 1 {
		t.Errorf("page = %d after pressing 1, want 1", got)
	}
}

func TestDashboard_Search(t *testing.T) {
	m, store, _ := newTestDashboard(t, "alice-laptop", "bob-phone", "alice-phone")

	m, _ = m.Update(runes("/"))
	m = typeInto(m, "ALICE")
	if got := store.Snapshot().Search; got != "ALICE" {
		t.Errorf("store search = %q, want ALICE", got)
	}
	if got := len(m.Table.Rows()); got != 2 {
		t.Errorf("rows = %d, want 2 matches", got)
	}

	// Enter keeps the filter, esc on the dashboard clears it
	m, _ = m.Update(keyOf(tea.KeyEnter))
	if got := len(m.Table.Rows()); got != 2 {
		t.Errorf("rows = %d after enter, want the filter kept", got)
	}
	m, _ = m.Update(keyOf(tea.KeyEsc))
	if got := store.Snapshot().Search; got != "" {
		t.Errorf("search = %q after esc, want cleared", got)
	}
	if got := len(m.Table.Rows()); got != 3 {
		t.Errorf("rows = %d, want all 3", got)
	}
}

func TestDashboard_SearchNoMatches(t *testing.T) {
	m, _, _ := newTestDashboard(t, "alice")

	m, _ = m.Update(runes("/"))
	m = typeInto(m, "zzz")
	if !strings.Contains(m.View(""), "No clients found matching your search.") {
		t.Error("View() should say nothing matched")
	}
}

func TestDashboard_CreateClient(t *testing.T) {
	m, store, srv := newTestDashboard(t, "alice")

	m, _ = m.Update(runes("n"))
	if m.mode != modeCreate || !store.Snapshot().CreateOpen {
		t.Fatal("n should open the create modal")
	}

	// Submit is disabled until a name is typed
	m, cmd := m.Update(keyOf(tea.KeyEnter))
	if cmd != nil {
		t.Fatal("enter with an empty name should not submit")
	}

	m = typeInto(m, "laptop")
	m, cmd = m.Update(keyOf(tea.KeyEnter))
	if !m.Form.Submitting {
		t.Error("form should be submitting")
	}
	m, _ = m.Update(mustCmd(t, cmd))

	if m.mode != modeConfig {
		t.Fatalf("mode = %v, want the config view", m.mode)
	}
	if m.Config.Created.Name != "laptop" || !m.Config.Created.HasConfig() {
		t.Errorf("created = %+v, want laptop with a config", m.Config.Created)
	}
	if len(srv.Clients()) != 2 || len(store.Snapshot().Clients) != 2 {
		t.Error("the list should be re-fetched after create")
	}
	if got := store.Snapshot().Success; got != "Client laptop created successfully." {
		t.Errorf("banner = %q", got)
	}

	m, _ = m.Update(keyOf(tea.KeyEsc))
	if m.mode != modeBrowse || store.Snapshot().CreateOpen || store.Snapshot().Created != nil {
		t.Error("esc should close the modal and drop the created client")
	}
}

func TestDashboard_CreateClientWithInvalidKey(t *testing.T) {
	m, _, srv := newTestDashboard(t)

	m, _ = m.Update(runes("n"))
	m = typeInto(m, "phone")
	m, _ = m.Update(keyOf(tea.KeyTab))
	m, _ = m.Update(space())
	m, _ = m.Update(keyOf(tea.KeyTab))
	m = typeInto(m, "garbage")

	m, cmd := m.Update(keyOf(tea.KeyEnter))
	if cmd != nil {
		t.Fatal("an invalid key must be rejected before any request")
	}
	if m.Form.Err != errInvalidPublicKey.Error() {
		t.Errorf("form error = %q, want %q", m.Form.Err, errInvalidPublicKey.Error())
	}
	if srv.Count(apitest.RouteCreateWithKey) != 0 {
		t.Error("no request should reach the server")
	}
}

func TestDashboard_CreateClientServerError(t *testing.T) {
	m, _, srv := newTestDashboard(t)
	srv.FailNext(apitest.RouteCreateClient, http.StatusConflict, `{"error":"name_taken"}`)

	m, _ = m.Update(runes("n"))
	m = typeInto(m, "dup")
	m, cmd := m.Update(keyOf(tea.KeyEnter))
	m, _ = m.Update(mustCmd(t, cmd))

	if m.mode != modeCreate {
		t.Fatalf("mode = %v, want the form to stay open", m.mode)
	}
	if m.Form.Err == "" {
		t.Error("the form should show the failure")
	}
	if m.Form.Submitting {
		t.Error("the form should be usable again")
	}
}

func TestDashboard_CreateModalClosesWhileSubmitting(t *testing.T) {
	m, store, _ := newTestDashboard(t)

	m, _ = m.Update(runes("n"))
	m = typeInto(m, "slow")
	m, cmd := m.Update(keyOf(tea.KeyEnter))

	m, _ = m.Update(keyOf(tea.KeyEsc))
	if m.mode != modeBrowse {
		t.Fatal("esc must close the modal even while submitting")
	}

	// The late result lands on the dashboard, not in a reopened modal
	m, _ = m.Update(mustCmd(t, cmd))
	if m.mode != modeBrowse {
		t.Errorf("mode = %v, want browse", m.mode)
	}
	if len(store.Snapshot().Clients) != 1 {
		t.Error("the created client should still appear in the list")
	}
	if store.Snapshot().Created != nil {
		t.Error("a result arriving after the modal closed should be discarded")
	}
}

func TestDashboard_RevokeClient(t *testing.T) {
	m, store, srv := newTestDashboard(t, "alice", "bob")

	// Cancel first
	m, _ = m.Update(runes("d"))
	if m.mode != modeRevoke {
		t.Fatal("d should ask for confirmation")
	}
	if !strings.Contains(m.View(""), `Revoke access for "alice"?`) {
		t.Error("confirmation should name the client")
	}
	m, _ = m.Update(runes("n"))
	if m.mode != modeBrowse {
		t.Fatal("n should cancel")
	}
	if _, pending := store.PendingRevoke(); pending {
		t.Error("cancel should drop the pending revocation")
	}
	if srv.Count(apitest.RouteDeleteClient) != 0 {
		t.Error("cancel must not call the API")
	}

	// Then confirm on the second row
	m, _ = m.Update(keyOf(tea.KeyDown))
	m, _ = m.Update(runes("d"))
	m, cmd := m.Update(runes("y"))
	m, _ = m.Update(mustCmd(t, cmd))

	snap := store.Snapshot()
	if len(snap.Clients) != 1 || snap.Clients[0].Name != "alice" {
		t.Errorf("clients = %+v, want only alice left", snap.Clients)
	}
	if snap.Success != "Revoked access for bob" {
		t.Errorf("banner = %q", snap.Success)
	}
	if len(m.Table.Rows()) != 1 {
		t.Errorf("rows = %d, want 1", len(m.Table.Rows()))
	}
}

func TestDashboard_RevokeOnEmptyList(t *testing.T) {
	m, _, _ := newTestDashboard(t)

	m, _ = m.Update(runes("d"))
	if m.mode != modeBrowse {
		t.Error("revoke with nothing selected should do nothing")
	}
}

func TestDashboard_Sync(t *testing.T) {
	m, store, _ := newTestDashboard(t, "alice", "bob", "carol")

	m, cmd := m.Update(runes("s"))
	if !strings.Contains(m.View(""), "Syncing peers...") {
		t.Error("View() should show sync progress")
	}
	m, _ = m.Update(mustCmd(t, cmd))

	if got := store.Snapshot().Success; got != "Successfully synced 3 peers to WireGuard kernel." {
		t.Errorf("banner = %q", got)
	}
	if m.working != "" {
		t.Error("progress should clear after sync")
	}
}

func TestDashboard_UnauthorizedLogsOut(t *testing.T) {
	m, store, srv := newTestDashboard(t, "alice")
	srv.RevokeTokens()

	m, cmd := m.Update(runes("r"))
	m, _ = m.Update(mustCmd(t, cmd))

	if store.IsAuthenticated() {
		t.Error("a 401 should log the operator out")
	}
	if got := store.Snapshot().Error; got != console.MsgSessionExpired {
		t.Errorf("banner = %q, want %q", got, console.MsgSessionExpired)
	}
}

func TestDashboard_DismissBanners(t *testing.T) {
	m, store, srv := newTestDashboard(t, "alice")
	srv.FailNext(apitest.RouteSync, http.StatusInternalServerError, "")

	m, cmd := m.Update(runes("s"))
	m, _ = m.Update(mustCmd(t, cmd))
	if got := store.Snapshot().Error; got != console.MsgSyncFailed {
		t.Fatalf("banner = %q, want %q", got, console.MsgSyncFailed)
	}

	m, _ = m.Update(keyOf(tea.KeyEsc))
	if store.Snapshot().Error != "" {
		t.Error("esc should dismiss the error banner")
	}
}

func TestDashboard_Logout(t *testing.T) {
	m, store, _ := newTestDashboard(t, "alice")

	m, _ = m.Update(runes("L"))
	if store.IsAuthenticated() {
		t.Error("L should log out")
	}
}

func TestDashboard_HelpModal(t *testing.T) {
	m, _, _ := newTestDashboard(t)

	m, _ = m.Update(runes("?"))
	if m.mode != modeHelp {
		t.Fatal("? should open help")
	}
	if !strings.Contains(m.View(""), "KEYBOARD SHORTCUTS") {
		t.Error("help modal should render")
	}
	m, _ = m.Update(runes("z"))
	if m.mode != modeBrowse {
		t.Error("any key should close help")
	}
}

func TestDashboard_QuitKey(t *testing.T) {
	m, _, _ := newTestDashboard(t)

	_, cmd := m.Update(runes("q"))
	if _, ok := mustCmd(t, cmd).(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
