package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wgadmin/wgadmin/internal/console"
)

type loginDoneMsg struct {
	err error
}

// loginKeyMap defines key bindings for the login screen
type loginKeyMap struct {
	Next   key.Binding
	Submit key.Binding
	Quit   key.Binding
}

func (k loginKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Quit}
}

func (k loginKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// LoginModel is the sign-in screen
type LoginModel struct {
	Store   *console.Store
	BaseURL string

	UsernameInput textinput.Model
	PasswordInput textinput.Model
	Submitting    bool

	Width   int
	Height  int
	Spinner spinner.Model
	Help    help.Model
	Keys    loginKeyMap
}

// NewLoginModel creates the login screen with username prefilled
func NewLoginModel(store *console.Store, baseURL, username string) LoginModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	user := textinput.New()
	user.Placeholder = "admin"
	user.CharLimit = 128
	user.Width = 32
	user.SetValue(username)

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 256
	pass.Width = 32

	m := LoginModel{
		Store:         store,
		BaseURL:       baseURL,
		UsernameInput: user,
		PasswordInput: pass,
		Spinner:       s,
		Help:          help.New(),
		Keys: loginKeyMap{
			Next: key.NewBinding(
				key.WithKeys("tab", "shift+tab", "up", "down"),
				key.WithHelp("tab", "switch field"),
			),
			Submit: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "sign in"),
			),
			Quit: key.NewBinding(
				key.WithKeys("ctrl+c"),
				key.WithHelp("ctrl+c", "quit"),
			),
		},
	}
	m.focusDefault()
	return m
}

// focusDefault focuses the password when a username is already known
func (m *LoginModel) focusDefault() {
	if strings.TrimSpace(m.UsernameInput.Value()) == "" {
		m.UsernameInput.Focus()
		m.PasswordInput.Blur()
		return
	}
	m.UsernameInput.Blur()
	m.PasswordInput.Focus()
}

// Reset clears the password and in-flight state, keeping the username
func (m *LoginModel) Reset() {
	m.PasswordInput.SetValue("")
	m.Submitting = false
	m.focusDefault()
}

// Init starts the cursor blink and spinner
func (m LoginModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.Spinner.Tick)
}

// Update handles messages and updates the model
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case loginDoneMsg:
		m.Submitting = false
		m.PasswordInput.SetValue("")
		return m, nil

	case tea.KeyMsg:
		if m.Submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.Keys.Next):
			if m.UsernameInput.Focused() {
				m.UsernameInput.Blur()
				m.PasswordInput.Focus()
			} else {
				m.PasswordInput.Blur()
				m.UsernameInput.Focus()
			}
			return m, textinput.Blink

		case key.Matches(msg, m.Keys.Submit):
			if m.UsernameInput.Focused() {
				m.UsernameInput.Blur()
				m.PasswordInput.Focus()
				return m, textinput.Blink
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.UsernameInput.Focused() {
		m.UsernameInput, cmd = m.UsernameInput.Update(msg)
	} else {
		m.PasswordInput, cmd = m.PasswordInput.Update(msg)
	}
	return m, cmd
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	username := strings.TrimSpace(m.UsernameInput.Value())
	password := m.PasswordInput.Value()
	if username == "" || password == "" {
		return m, nil
	}
	m.Submitting = true
	m.Store.DismissError()
	return m, loginCmd(m.Store, username, password)
}

func loginCmd(store *console.Store, username, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: store.Login(context.Background(), username, password)}
	}
}

// View renders the login form
func (m LoginModel) View(status string) string {
	snap := m.Store.Snapshot()

	fieldLabel := func(text string, focused bool) string {
		if focused {
			return FocusedInputStyle.Render(text)
		}
		return BlurredInputStyle.Render(text)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		fieldLabel("Username", m.UsernameInput.Focused()),
		m.UsernameInput.View(),
		"",
		fieldLabel("Password", m.PasswordInput.Focused()),
		m.PasswordInput.View(),
	)

	parts := []string{
		RenderTitle("Sign in"),
		RenderSubtitle("API: " + m.BaseURL),
		"",
		InfoBoxStyle.Padding(1, 2).Render(form),
	}
	if m.Submitting {
		parts = append(parts, "", m.Spinner.View()+" Signing in...")
	}
	if snap.Error != "" {
		parts = append(parts, "", RenderError(snap.Error))
	}

	return RenderApplicationContainer(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
		status,
		m.Help.ShortHelpView(m.Keys.ShortHelp()),
		m.Width,
		m.Height,
	)
}
