package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/wgadmin/wgadmin/internal/api"
	"github.com/wgadmin/wgadmin/internal/console"
)

func TestTerminalWidth_NonTerminal(t *testing.T) {
	if got := TerminalWidth(&bytes.Buffer{}); got != MaxContentWidth {
		t.Errorf("TerminalWidth(buffer) = %d, want %d", got, MaxContentWidth)
	}
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("IsTerminal(buffer) = true, want false")
	}
}

func TestHeader_KeepsParamOrder(t *testing.T) {
	out := NewHeader("create client", "wgadmin clients create",
		Param{"API", "http://vpn:9191"},
		Param{"Name", "laptop"},
	).Render()

	if !strings.Contains(out, "CREATE CLIENT") {
		t.Error("title should be upper-cased")
	}
	apiPos := strings.Index(out, "http://vpn:9191")
	name := strings.Index(out, "laptop")
	if apiPos < 0 || name < 0 || apiPos > name {
		t.Errorf("params out of order:\n%s", out)
	}
}

func TestResult_Success(t *testing.T) {
	out := NewSuccessResult("Sync complete", Param{"Applied peers", "3"}).Render()

	for _, want := range []string{SuccessMarker, "SUCCESS", "Sync complete", "Applied peers:", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("success box is missing %q", want)
		}
	}
}

func TestResult_KeysNeverWrap(t *testing.T) {
	out := NewSuccessResult("Sync complete",
		Param{"Applied peers", "3"},
		Param{"Configuration file location", "/tmp/wg-laptop.conf"},
	).Render()

	for _, want := range []string{"Applied peers:", "Configuration file location:"} {
		found := false
		for _, line := range strings.Split(out, "\n") {
			if strings.Contains(line, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("key %q should render on a single line:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Applied\n") {
		t.Errorf("key wrapped:\n%s", out)
	}
}

func TestResult_FailureWithAPIError(t *testing.T) {
	err := &api.APIError{Kind: api.KindUnauthorized, Op: "list clients", StatusCode: 401}
	r := NewFailureResult("List failed", err)

	if r.Hint == "" {
		t.Fatal("API errors should carry a troubleshooting hint")
	}
	out := r.Render()
	if !strings.Contains(out, "Session expired") {
		t.Errorf("failure box should use the short message:\n%s", out)
	}
	if !strings.Contains(out, "wgadmin login") {
		t.Errorf("failure box should include the hint:\n%s", out)
	}
}

func TestResult_FailurePlainError(t *testing.T) {
	r := NewFailureResult("Save failed", errors.New("disk full"))
	if r.Hint != "" {
		t.Errorf("Hint = %q, want none for non-API errors", r.Hint)
	}
	if !strings.Contains(r.Render(), "disk full") {
		t.Error("failure box should show the error")
	}
}

func TestRenderClientTable(t *testing.T) {
	out := RenderClientTable([]api.Client{
		{ID: "1", Name: "alice", IP: "10.0.0.2", PublicKey: "pubA", CreatedAt: "2024-05-01 10:00:00"},
		{ID: "2", Name: "bob", IP: "10.0.0.3", PublicKey: "pubB", Revoked: 1},
	})

	for _, want := range []string{"NAME", "alice", "10.0.0.2", "pubA", "2024-05-01", "active", "bob", "revoked"} {
		if !strings.Contains(out, want) {
			t.Errorf("table is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "10:00:00") {
		t.Error("created should render as a date")
	}
}

func TestRenderClientTable_Empty(t *testing.T) {
	if out := RenderClientTable(nil); !strings.Contains(out, "No clients.") {
		t.Errorf("RenderClientTable(nil) = %q", out)
	}
}

func TestRenderPageSummary(t *testing.T) {
	tests := []struct {
		shown, total, page, pages int
		want                      string
	}{
		{3, 3, 1, 1, "Showing 3 of 3 clients"},
		{8, 17, 2, 3, "Showing 8 of 17 clients • Page 2 of 3"},
	}
	for _, tt := range tests {
		got := RenderPageSummary(tt.shown, tt.total, tt.page, tt.pages)
		if !strings.Contains(got, tt.want) {
			t.Errorf("RenderPageSummary(%d, %d, %d, %d) = %q, want %q", tt.shown, tt.total, tt.page, tt.pages, got, tt.want)
		}
	}
}

func TestConfirmRevoke(t *testing.T) {
	client := api.Client{ID: "7", Name: "phone", IP: "10.0.0.8"}
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"yes", true}, // no trailing newline
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yep\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		if got := ConfirmRevoke(strings.NewReader(tt.input), &out, client); got != tt.want {
			t.Errorf("ConfirmRevoke(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), `Revoke access for "phone"? This will remove the peer immediately.`) {
			t.Errorf("prompt should name the client:\n%s", out.String())
		}
	}
}

func TestPrinter_PrintConfig(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintConfig(api.CreateClientResponse{
		Client: api.Client{Name: "laptop"},
		Config: "[Interface]\nPrivateKey = abc\n",
	})
	out := buf.String()
	for _, want := range []string{"wg-laptop.conf", "[Interface]", "PrivateKey = abc"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output is missing %q", want)
		}
	}

	buf.Reset()
	p.PrintConfig(api.CreateClientResponse{Client: api.Client{Name: "router"}})
	if !strings.Contains(buf.String(), console.NoConfigNotice) {
		t.Errorf("keyed create should print the notice, got %q", buf.String())
	}
}

func TestRunner(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(RunnerConfig{
		Title:   "Sync Peers",
		Command: "wgadmin sync",
		Params:  []Param{{"API", "http://vpn:9191"}},
		Wait:    "Applying peers",
		Output:  &buf,
	})

	err := r.Run(context.Background(), func(ctx context.Context) ([]Param, error) {
		return []Param{{"Applied peers", "4"}}, nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"SYNC PEERS", "wgadmin sync", "Applying peers...", "Sync Peers complete", "Applied peers:", "Duration:"} {
		if !strings.Contains(out, want) {
			t.Errorf("runner output is missing %q:\n%s", want, out)
		}
	}
}

func TestRunner_Failure(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(RunnerConfig{Title: "Sync Peers", Command: "wgadmin sync", Output: &buf})

	want := errors.New("boom")
	err := r.Run(context.Background(), func(ctx context.Context) ([]Param, error) {
		return nil, want
	})
	if !errors.Is(err, want) {
		t.Errorf("Run() error = %v, want %v", err, want)
	}
	if !strings.Contains(buf.String(), "Sync Peers failed") {
		t.Errorf("runner should print the failure box:\n%s", buf.String())
	}
}

func TestCountdown(t *testing.T) {
	c := NewCountdown("Scanning", 4*time.Second)

	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 0},
		{time.Second, 0.25},
		{4 * time.Second, 1},
		{10 * time.Second, 1},
		{-time.Second, 0},
	}
	for _, tt := range tests {
		if got := c.Percent(tt.elapsed); got != tt.want {
			t.Errorf("Percent(%v) = %v, want %v", tt.elapsed, got, tt.want)
		}
	}

	if got := c.Render(time.Second); !strings.Contains(got, "Scanning") || !strings.Contains(got, "3s left") {
		t.Errorf("Render() = %q, want the label and time left", got)
	}
}

func TestCountdown_RunStopsOnCancel(t *testing.T) {
	var buf bytes.Buffer
	c := NewCountdown("Scanning", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		c.Run(ctx, &buf)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("Run() should end the line")
	}
}
