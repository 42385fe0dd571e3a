package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// closeModalKey closes any modal, whatever state its body is in
var closeModalKey = key.NewBinding(
	key.WithKeys("esc"),
	key.WithHelp("esc", "close"),
)

// Modal is a titled overlay. It holds no business logic: the screen that
// owns it decides what the body shows and what closing means.
type Modal struct {
	Title string
	Open  bool
	Width int
}

// NewModal creates a closed modal
func NewModal(title string, width int) Modal {
	return Modal{Title: title, Width: width}
}

// Show opens the modal
func (m *Modal) Show() {
	m.Open = true
}

// Hide closes the modal
func (m *Modal) Hide() {
	m.Open = false
}

// HandleClose closes an open modal on esc and reports whether it did
func (m *Modal) HandleClose(msg tea.Msg) bool {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.Open || !key.Matches(keyMsg, closeModalKey) {
		return false
	}
	m.Open = false
	return true
}

// View renders body and footer in a bordered box centered on the terminal
func (m Modal) View(body, footer string, terminalWidth, terminalHeight int) string {
	width := SafeModalWidth(m.Width, terminalWidth)

	parts := []string{
		lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true).Render(m.Title),
		"",
		body,
	}
	if footer != "" {
		parts = append(parts, "", HelpStyle.Render(footer))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 2).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))

	return RenderModal(box, terminalWidth, terminalHeight)
}
