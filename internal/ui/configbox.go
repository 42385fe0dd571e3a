package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wgadmin/wgadmin/internal/api"
	"github.com/wgadmin/wgadmin/internal/console"
)

var (
	configTitleStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Bold(true)

	configContentStyle = lipgloss.NewStyle().
				Foreground(TextColor)
)

// ConfigBox displays a generated WireGuard configuration verbatim
type ConfigBox struct {
	Title   string // e.g., "wg-laptop.conf"
	Content string
	Width   int
}

// NewConfigBox creates a box for the config returned with created
func NewConfigBox(created api.CreateClientResponse) *ConfigBox {
	return &ConfigBox{
		Title:   created.ConfigFileName(),
		Content: created.Config,
		Width:   MaxContentWidth,
	}
}

// SetWidth sets the terminal width for responsive rendering
func (c *ConfigBox) SetWidth(width int) *ConfigBox {
	c.Width = width
	return c
}

// Render returns the config in a muted box. Lines are not wrapped so the
// output stays valid when copied.
func (c *ConfigBox) Render() string {
	content := strings.TrimRight(c.Content, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			configTitleStyle.Render(c.Title),
			"",
			configContentStyle.Render(content),
		))
}

// String implements fmt.Stringer
func (c *ConfigBox) String() string {
	return c.Render()
}

// RenderNoConfig renders the notice shown instead of a config
func RenderNoConfig() string {
	return lipgloss.NewStyle().Foreground(WarningColor).PaddingLeft(2).Render(console.NoConfigNotice)
}
