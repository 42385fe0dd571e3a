package tui

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wgadmin/wgadmin/internal/api"
	"github.com/wgadmin/wgadmin/internal/console"
	"github.com/wgadmin/wgadmin/internal/logging"
)

// CopiedAckDuration is how long the "copied" acknowledgment stays visible
const CopiedAckDuration = 2 * time.Second

// copyResetMsg ends a copy acknowledgment. seq ties it to the copy that
// scheduled it so a later copy is not cut short.
type copyResetMsg struct {
	seq int
}

type configViewKeyMap struct {
	Copy  key.Binding
	Save  key.Binding
	Close key.Binding
}

func (k configViewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Copy, k.Save, k.Close}
}

func (k configViewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ConfigView shows what the server returned for a newly created client:
// the assigned IP and, when one was generated, the WireGuard config
type ConfigView struct {
	Created     api.CreateClientResponse
	DownloadDir string

	Copied    bool
	SavedPath string
	Err       string

	copySeq   int
	writeClip func(string) error
	keys      configViewKeyMap
}

// NewConfigView creates a viewer for created; saved files go to downloadDir
func NewConfigView(created api.CreateClientResponse, downloadDir string) ConfigView {
	return ConfigView{
		Created:     created,
		DownloadDir: downloadDir,
		writeClip:   clipboard.WriteAll,
		keys: configViewKeyMap{
			Copy: key.NewBinding(
				key.WithKeys("c"),
				key.WithHelp("c", "copy config"),
			),
			Save: key.NewBinding(
				key.WithKeys("w"),
				key.WithHelp("w", "save "+created.ConfigFileName()),
			),
			Close: key.NewBinding(
				key.WithKeys("esc", "enter"),
				key.WithHelp("esc", "done"),
			),
		},
	}
}

// Update handles copy and save. Closing belongs to the owning screen.
func (v ConfigView) Update(msg tea.Msg) (ConfigView, tea.Cmd) {
	switch msg := msg.(type) {
	case copyResetMsg:
		if msg.seq == v.copySeq {
			v.Copied = false
		}
		return v, nil

	case tea.KeyMsg:
		if !v.Created.HasConfig() {
			return v, nil
		}
		switch {
		case key.Matches(msg, v.keys.Copy):
			return v.copy()
		case key.Matches(msg, v.keys.Save):
			return v.save(), nil
		}
	}
	return v, nil
}

func (v ConfigView) copy() (ConfigView, tea.Cmd) {
	if err := v.writeClip(v.Created.Config); err != nil {
		logging.Warn("Clipboard unavailable", zap.Error(err))
		v.Err = fmt.Sprintf("Clipboard unavailable: %v", err)
		return v, nil
	}
	v.Err = ""
	v.Copied = true
	v.copySeq++
	seq := v.copySeq
	return v, tea.Tick(CopiedAckDuration, func(time.Time) tea.Msg {
		return copyResetMsg{seq: seq}
	})
}

func (v ConfigView) save() ConfigView {
	path, err := console.SaveConfig(v.DownloadDir, &v.Created)
	if err != nil {
		v.Err = err.Error()
		return v
	}
	v.Err = ""
	v.SavedPath = path
	return v
}

// HelpKeys returns the bindings that apply to the current content
func (v ConfigView) HelpKeys() []key.Binding {
	if !v.Created.HasConfig() {
		return []key.Binding{v.keys.Close}
	}
	return v.keys.ShortHelp()
}

// View renders the assigned IP and the config or the no-config notice
func (v ConfigView) View(width int) string {
	lines := []string{
		RenderField("Client:", v.Created.Name),
		RenderField("Assigned IP:", v.Created.IP),
		"",
	}

	if !v.Created.HasConfig() {
		lines = append(lines, NoticeStyle.Width(width).Render(console.NoConfigNotice))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, InfoBoxStyle.Width(width).Render(v.Created.Config))

	var status []string
	if v.Copied {
		status = append(status, ActiveStyle.Render("✓ Copied!"))
	}
	if v.SavedPath != "" {
		status = append(status, ActiveStyle.Render("✓ Saved to "+v.SavedPath))
	}
	if v.Err != "" {
		status = append(status, RevokedStyle.Render(v.Err))
	}
	if len(status) > 0 {
		lines = append(lines, "", lipgloss.JoinVertical(lipgloss.Left, status...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
