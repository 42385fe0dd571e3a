package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wgadmin/wgadmin/internal/console"
	"github.com/wgadmin/wgadmin/internal/logging"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenLoading   Screen = "loading"
	ScreenLogin     Screen = "login"
	ScreenDashboard Screen = "dashboard"
)

// SessionCheckInterval is how often token expiry and API health are checked
const SessionCheckInterval = 30 * time.Second

type bootstrapDoneMsg struct {
	err error
}

type healthCheckedMsg struct {
	health console.Health
}

type sessionTickMsg time.Time

// Options configures the console
type Options struct {
	Store       *console.Store
	BaseURL     string
	Username    string // Prefilled on the login screen
	DownloadDir string // Where saved configs go
}

// AppModel is the top-level model. The screen always follows the store's
// auth state: authenticated means dashboard, anything else means login.
type AppModel struct {
	CurrentScreen Screen

	Login     LoginModel
	Dashboard DashboardModel

	Width   int
	Height  int
	Spinner spinner.Model

	store *console.Store
	opts  Options
	ready bool // bootstrap finished
}

// NewAppModel creates the console in its loading state
func NewAppModel(opts Options) AppModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return AppModel{
		CurrentScreen: ScreenLoading,
		Login:         NewLoginModel(opts.Store, opts.BaseURL, opts.Username),
		Dashboard:     NewDashboardModel(opts.Store, opts.BaseURL, opts.DownloadDir),
		Spinner:       s,
		store:         opts.Store,
		opts:          opts,
	}
}

// Run starts the console and blocks until the operator quits
func Run(opts Options) error {
	p := tea.NewProgram(NewAppModel(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console error: %w", err)
	}
	return nil
}

// Init restores any stored session and starts the periodic checks
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		bootstrapCmd(m.store),
		checkHealthCmd(m.store),
		sessionTickCmd(),
	)
}

func bootstrapCmd(store *console.Store) tea.Cmd {
	return func() tea.Msg {
		return bootstrapDoneMsg{err: store.Bootstrap(context.Background())}
	}
}

func checkHealthCmd(store *console.Store) tea.Cmd {
	return func() tea.Msg {
		return healthCheckedMsg{health: store.CheckHealth(context.Background())}
	}
}

func sessionTickCmd() tea.Cmd {
	return tea.Tick(SessionCheckInterval, func(t time.Time) tea.Msg {
		return sessionTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Propagate to all screens
		m.Login, _ = m.Login.Update(msg)
		m.Dashboard, _ = m.Dashboard.Update(msg)
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case bootstrapDoneMsg:
		m.ready = true
		if msg.err != nil {
			logging.Debug("Bootstrap fetch failed", zap.Error(msg.err))
		}
		return m.followAuth(nil)

	case healthCheckedMsg:
		return m, nil

	case sessionTickMsg:
		m.store.CheckExpiry()
		return m.followAuth(tea.Batch(checkHealthCmd(m.store), sessionTickCmd()))
	}

	var cmd tea.Cmd
	switch m.CurrentScreen {
	case ScreenLoading:
		if tick, ok := msg.(spinner.TickMsg); ok {
			m.Spinner, cmd = m.Spinner.Update(tick)
		}
		return m, cmd
	case ScreenLogin:
		m.Login, cmd = m.Login.Update(msg)
	case ScreenDashboard:
		m.Dashboard, cmd = m.Dashboard.Update(msg)
	}
	return m.followAuth(cmd)
}

// followAuth moves to the screen matching the store's auth state
func (m AppModel) followAuth(cmd tea.Cmd) (AppModel, tea.Cmd) {
	if !m.ready {
		return m, cmd
	}
	want := ScreenLogin
	if m.store.IsAuthenticated() {
		want = ScreenDashboard
	}
	if want == m.CurrentScreen {
		return m, cmd
	}
	return m.transitionTo(want, cmd)
}

// transitionTo transitions to a new screen, starting it fresh
func (m AppModel) transitionTo(screen Screen, cmd tea.Cmd) (AppModel, tea.Cmd) {
	logging.Debug("Screen transition",
		zap.String("from", string(m.CurrentScreen)),
		zap.String("to", string(screen)),
	)
	m.CurrentScreen = screen

	var enter tea.Cmd
	switch screen {
	case ScreenDashboard:
		m.Dashboard = NewDashboardModel(m.store, m.opts.BaseURL, m.opts.DownloadDir)
		m.Dashboard, _ = m.Dashboard.Update(tea.WindowSizeMsg{Width: m.Width, Height: m.Height})
		enter = m.Dashboard.Init()
	case ScreenLogin:
		m.Login.Reset()
		enter = m.Login.Init()
	}
	return m, tea.Batch(cmd, enter)
}

// View renders the current screen
func (m AppModel) View() string {
	if m.Width == 0 {
		// No size yet
		return ""
	}

	status := m.statusLine()
	switch m.CurrentScreen {
	case ScreenLogin:
		return m.Login.View(status)
	case ScreenDashboard:
		return m.Dashboard.View(status)
	}
	return RenderApplicationContainer(
		m.Spinner.View()+" Connecting to "+m.opts.BaseURL+"...",
		status,
		"ctrl+c quit",
		m.Width,
		m.Height,
	)
}

// statusLine shows API health and, when known, the session time left
func (m AppModel) statusLine() string {
	snap := m.store.Snapshot()

	var health string
	switch snap.Health {
	case console.HealthOK:
		health = lipgloss.NewStyle().Foreground(SecondaryColor).Render("● API healthy")
	case console.HealthDown:
		health = lipgloss.NewStyle().Foreground(ErrorColor).Render("● API unreachable")
	default:
		health = LabelStyle.Render("○ API unknown")
	}

	left, ok := snap.TimeLeft()
	if !ok {
		return health
	}
	style := LabelStyle
	if left < 5*time.Minute {
		style = NoticeStyle
	}
	return health + LabelStyle.Render(" • ") + style.Render("session "+FormatRemaining(left))
}

// FormatRemaining renders a countdown like "1h05m", "42m" or "<1m"
func FormatRemaining(d time.Duration) string {
	if d < time.Minute {
		return "<1m"
	}
	d = d.Truncate(time.Minute)
	h := int(d / time.Hour)
	mins := int((d % time.Hour) / time.Minute)
	if h == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if h >= 48 {
		return fmt.Sprintf("%dd", h/24)
	}
	return fmt.Sprintf("%dh%02dm", h, mins)
}
