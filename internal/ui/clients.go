package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wgadmin/wgadmin/internal/api"
)

const statusColumn = 5

// RenderClientTable renders clients as a bordered table. Public keys are
// shown in full so they can be copied from the terminal.
func RenderClientTable(clients []api.Client) string {
	if len(clients) == 0 {
		return MutedStyle.Render("  No clients.")
	}

	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		status := "active"
		if c.IsRevoked() {
			status = "revoked"
		}
		rows = append(rows, []string{c.ID.String(), c.Name, c.IP, c.PublicKey, c.CreatedDate(), status})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		Headers("ID", "NAME", "IP ADDRESS", "PUBLIC KEY", "CREATED", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col == statusColumn && row >= 0 && row < len(rows) {
				if rows[row][statusColumn] == "revoked" {
					return TableCellStyle.Foreground(ErrorColor)
				}
				return TableCellStyle.Foreground(SuccessColor)
			}
			return TableCellStyle
		})

	return t.Render()
}

// RenderPageSummary renders "Showing N of M clients" with the page position
func RenderPageSummary(shown, total, page, pages int) string {
	if pages <= 1 {
		return MutedStyle.Render(fmt.Sprintf("  Showing %d of %d clients", shown, total))
	}
	return MutedStyle.Render(fmt.Sprintf("  Showing %d of %d clients • Page %d of %d", shown, total, page, pages))
}
