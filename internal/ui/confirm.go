package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wgadmin/wgadmin/internal/api"
)

// ConfirmRevoke displays a warning box naming the client and prompts for a
// y/N answer on in. Anything other than "y" or "yes" cancels.
func ConfirmRevoke(in io.Reader, out io.Writer, c api.Client) bool {
	width := TerminalWidth(out)

	titleLine := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true).
		Render(fmt.Sprintf("   %s  WARNING  ─  Revoke access for %q? This will remove the peer immediately.", WarningMarker, c.Name))

	lines := []string{"", titleLine, ""}
	lines = append(lines, renderDetails([]Param{{"ID", c.ID.String()}, {"IP", c.IP}, {"Public key", c.PublicKey}})...)
	lines = append(lines, "")

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(WarningColor).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))

	_, _ = fmt.Fprintln(out, box)
	_, _ = fmt.Fprintln(out)

	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	_, _ = fmt.Fprint(out, promptStyle.Render("Revoke this client? [y/N]: "))

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		_, _ = fmt.Fprintln(out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		_, _ = fmt.Fprintln(out)
		return true
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, MutedStyle.Render("  Operation cancelled."))
	return false
}
