package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wgadmin/wgadmin/internal/api"
	"github.com/wgadmin/wgadmin/internal/console"
)

// Messages for async operations
type clientsLoadedMsg struct {
	err error
}

type clientCreatedMsg struct {
	resp *api.CreateClientResponse
	err  error
}

type clientRevokedMsg struct {
	err error
}

type syncDoneMsg struct {
	resp *api.SyncResponse
	err  error
}

// dashboardMode says which overlay, if any, owns the keyboard
type dashboardMode int

const (
	modeBrowse dashboardMode = iota
	modeSearch
	modeCreate
	modeConfig
	modeRevoke
	modeHelp
)

// dashboardKeyMap defines key bindings for the dashboard screen
type dashboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Search   key.Binding
	New      key.Binding
	Revoke   key.Binding
	Sync     key.Binding
	Refresh  key.Binding
	Dismiss  key.Binding
	Logout   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Revoke, k.Search, k.Sync, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage},
		{k.Search, k.New, k.Revoke, k.Dismiss},
		{k.Sync, k.Refresh, k.Logout, k.Quit},
	}
}

func newDashboardKeyMap() dashboardKeyMap {
	return dashboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "pgup"),
			key.WithHelp("←/h", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "pgdown"),
			key.WithHelp("→/l", "next page"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new client"),
		),
		Revoke: key.NewBinding(
			key.WithKeys("d", "x", "delete"),
			key.WithHelp("d", "revoke"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sync"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DashboardModel is the client registry screen
type DashboardModel struct {
	Store       *console.Store
	BaseURL     string
	DownloadDir string

	// UI state
	Width  int
	Height int

	Table  table.Model
	Search textinput.Model
	Form   ClientForm
	Config ConfigView

	CreateModal Modal
	RevokeModal Modal
	HelpModal   Modal

	Spinner spinner.Model
	Help    help.Model
	Keys    dashboardKeyMap

	mode    dashboardMode
	working string // label for the action in flight, shown beside the spinner
	notice  string // one-shot message, cleared by the next key press
	pageIDs []api.ClientID
}

// NewDashboardModel creates the dashboard over store
func NewDashboardModel(store *console.Store, baseURL, downloadDir string) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search by name, IP or public key..."
	search.CharLimit = 64
	search.Width = 40

	keys := newDashboardKeyMap()

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(SubtleColor).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(TextColor).
		Background(PrimaryColor).
		Bold(false)

	t := table.New(
		table.WithColumns(clientColumns(MinTerminalWidth)),
		table.WithStyles(styles),
		table.WithHeight(console.PageSize+2), // header row and its border
		table.WithFocused(true),
		table.WithKeyMap(table.KeyMap{LineUp: keys.Up, LineDown: keys.Down}),
	)

	m := DashboardModel{
		Store:       store,
		BaseURL:     baseURL,
		DownloadDir: downloadDir,
		Table:       t,
		Search:      search,
		CreateModal: NewModal("NEW CLIENT", 64),
		RevokeModal: NewModal("REVOKE CLIENT", 60),
		HelpModal:   NewModal("KEYBOARD SHORTCUTS", 70),
		Spinner:     s,
		Help:        help.New(),
		Keys:        keys,
	}
	m.refresh()
	return m
}

// clientColumns sizes the table for a terminal width; the name column
// absorbs whatever the fixed columns leave
func clientColumns(terminalWidth int) []table.Column {
	const (
		idWidth      = 6
		ipWidth      = 15
		keyWidth     = 16
		createdWidth = 10
		statusWidth  = 8
		cellPadding  = 2 * 6
	)
	content := max(terminalWidth, MinTerminalWidth) - 6
	nameWidth := max(12, content-idWidth-ipWidth-keyWidth-createdWidth-statusWidth-cellPadding)

	return []table.Column{
		{Title: "ID", Width: idWidth},
		{Title: "Client Name", Width: nameWidth},
		{Title: "IP Address", Width: ipWidth},
		{Title: "Public Key", Width: keyWidth},
		{Title: "Created", Width: createdWidth},
		{Title: "Status", Width: statusWidth},
	}
}

func clientRow(c api.Client) table.Row {
	status := "active"
	if c.IsRevoked() {
		status = "revoked"
	}
	return table.Row{
		c.ID.String(),
		c.Name,
		c.IP,
		Truncate(c.PublicKey, 16),
		c.CreatedDate(),
		status,
	}
}

// refresh copies the current page from the store into the table
func (m *DashboardModel) refresh() {
	snap := m.Store.Snapshot()
	rows := make([]table.Row, 0, len(snap.PageClients))
	ids := make([]api.ClientID, 0, len(snap.PageClients))
	for _, c := range snap.PageClients {
		rows = append(rows, clientRow(c))
		ids = append(ids, c.ID)
	}
	m.pageIDs = ids
	m.Table.SetRows(rows)
	m.Table.SetCursor(m.Table.Cursor())
}

// selectedID returns the client under the table cursor
func (m DashboardModel) selectedID() (api.ClientID, bool) {
	i := m.Table.Cursor()
	if i < 0 || i >= len(m.pageIDs) {
		return "", false
	}
	return m.pageIDs[i], true
}

// Init starts the spinner
func (m DashboardModel) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update handles messages and updates the model
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Table.SetColumns(clientColumns(msg.Width))
		return m, nil

	case spinner.TickMsg:
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case copyResetMsg:
		m.Config, cmd = m.Config.Update(msg)
		return m, cmd

	case clientsLoadedMsg:
		m.working = ""
		m.refresh()
		return m, nil

	case clientCreatedMsg:
		m.Form.Submitting = false
		m.refresh()
		if m.mode != modeCreate {
			// The modal was closed before the result arrived; drop it
			m.Store.CloseCreate()
			return m, nil
		}
		if msg.err != nil {
			m.Form.Err = m.failureText(msg.err)
			return m, nil
		}
		m.Config = NewConfigView(*msg.resp, m.DownloadDir)
		m.CreateModal.Title = "CLIENT CREATED"
		m.mode = modeConfig
		return m, nil

	case clientRevokedMsg:
		m.working = ""
		if errors.Is(msg.err, console.ErrBusy) {
			m.notice = msg.err.Error()
		}
		m.refresh()
		return m, nil

	case syncDoneMsg:
		m.working = ""
		if errors.Is(msg.err, console.ErrBusy) {
			m.notice = msg.err.Error()
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		switch m.mode {
		case modeHelp:
			m.HelpModal.Hide()
			m.mode = modeBrowse
			return m, nil
		case modeSearch:
			return m.updateSearch(msg)
		case modeCreate:
			return m.updateCreate(msg)
		case modeConfig:
			return m.updateConfig(msg)
		case modeRevoke:
			return m.updateRevoke(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

// failureText prefers the store's banner, which already maps API errors to
// operator-facing text
func (m DashboardModel) failureText(err error) string {
	if errors.Is(err, console.ErrBusy) || errors.Is(err, console.ErrNameRequired) {
		return err.Error()
	}
	if banner := m.Store.Snapshot().Error; banner != "" {
		return banner
	}
	return err.Error()
}

func (m DashboardModel) updateBrowse(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Help):
		m.HelpModal.Show()
		m.mode = modeHelp

	case key.Matches(msg, m.Keys.Search):
		m.mode = modeSearch
		return m, m.Search.Focus()

	case key.Matches(msg, m.Keys.PrevPage):
		m.Store.PrevPage()
		m.refresh()

	case key.Matches(msg, m.Keys.NextPage):
		m.Store.NextPage()
		m.refresh()

	case len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9':
		page, _ := strconv.Atoi(string(msg.Runes))
		m.Store.SetPage(page)
		m.refresh()

	case key.Matches(msg, m.Keys.New):
		m.Store.OpenCreate()
		m.Form = NewClientForm()
		m.CreateModal.Title = "NEW CLIENT"
		m.CreateModal.Show()
		m.mode = modeCreate
		return m, textinput.Blink

	case key.Matches(msg, m.Keys.Revoke):
		id, ok := m.selectedID()
		if !ok {
			return m, nil
		}
		if err := m.Store.RequestRevoke(id); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.RevokeModal.Show()
		m.mode = modeRevoke

	case key.Matches(msg, m.Keys.Sync):
		if m.Store.Snapshot().Busy {
			m.notice = console.ErrBusy.Error()
			return m, nil
		}
		m.working = "Syncing peers..."
		return m, syncCmd(m.Store)

	case key.Matches(msg, m.Keys.Refresh):
		m.working = "Refreshing..."
		return m, fetchCmd(m.Store)

	case key.Matches(msg, m.Keys.Logout):
		m.Store.Logout()

	case key.Matches(msg, m.Keys.Dismiss):
		snap := m.Store.Snapshot()
		switch {
		case snap.Error != "":
			m.Store.DismissError()
		case snap.Success != "":
			m.Store.DismissSuccess()
		case snap.Search != "":
			m.Search.SetValue("")
			m.Store.SetSearch("")
			m.refresh()
		}

	default:
		var cmd tea.Cmd
		m.Table, cmd = m.Table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m DashboardModel) updateSearch(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Search.SetValue("")
		m.Search.Blur()
		m.Store.SetSearch("")
		m.mode = modeBrowse
		m.refresh()
		return m, nil
	case "enter", "down":
		m.Search.Blur()
		m.mode = modeBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.Search, cmd = m.Search.Update(msg)
	m.Store.SetSearch(m.Search.Value())
	m.refresh()
	return m, cmd
}

func (m DashboardModel) updateCreate(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	if m.CreateModal.HandleClose(msg) {
		m.Store.CloseCreate()
		m.mode = modeBrowse
		return m, nil
	}
	if m.Form.Submitting {
		return m, nil
	}

	if msg.String() == "enter" {
		if !m.Form.CanSubmit() {
			return m, nil
		}
		req, err := m.Form.Request()
		if err != nil {
			m.Form.Err = err.Error()
			return m, nil
		}
		m.Form.Submitting = true
		m.Form.Err = ""
		return m, createCmd(m.Store, req)
	}

	var cmd tea.Cmd
	m.Form, cmd = m.Form.Update(msg)
	return m, cmd
}

func (m DashboardModel) updateConfig(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	if m.CreateModal.HandleClose(msg) || msg.String() == "enter" {
		m.CreateModal.Hide()
		m.Store.CloseCreate()
		m.mode = modeBrowse
		return m, nil
	}
	var cmd tea.Cmd
	m.Config, cmd = m.Config.Update(msg)
	return m, cmd
}

func (m DashboardModel) updateRevoke(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	if m.RevokeModal.HandleClose(msg) || msg.String() == "n" {
		m.RevokeModal.Hide()
		m.Store.CancelRevoke()
		m.mode = modeBrowse
		return m, nil
	}
	switch msg.String() {
	case "y", "enter":
		m.RevokeModal.Hide()
		m.mode = modeBrowse
		m.working = "Revoking..."
		return m, revokeCmd(m.Store)
	}
	return m, nil
}

func fetchCmd(store *console.Store) tea.Cmd {
	return func() tea.Msg {
		return clientsLoadedMsg{err: store.FetchClients(context.Background())}
	}
}

func createCmd(store *console.Store, req console.ClientRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := store.CreateClient(context.Background(), req)
		return clientCreatedMsg{resp: resp, err: err}
	}
}

func revokeCmd(store *console.Store) tea.Cmd {
	return func() tea.Msg {
		return clientRevokedMsg{err: store.ConfirmRevoke(context.Background())}
	}
}

func syncCmd(store *console.Store) tea.Cmd {
	return func() tea.Msg {
		resp, err := store.Sync(context.Background())
		return syncDoneMsg{resp: resp, err: err}
	}
}

// View renders the dashboard, or the open modal over it
func (m DashboardModel) View(status string) string {
	snap := m.Store.Snapshot()

	switch m.mode {
	case modeCreate:
		return m.CreateModal.View(
			m.Form.View(),
			m.Help.ShortHelpView(m.Form.keys.ShortHelp()),
			m.Width, m.Height,
		)
	case modeConfig:
		width := SafeModalWidth(m.CreateModal.Width, m.Width) - 6
		return m.CreateModal.View(
			m.Config.View(width),
			m.Help.ShortHelpView(m.Config.HelpKeys()),
			m.Width, m.Height,
		)
	case modeRevoke:
		return m.RevokeModal.View(m.renderRevokeContent(snap), "y confirm • n/esc cancel", m.Width, m.Height)
	case modeHelp:
		return m.HelpModal.View(m.Help.FullHelpView(m.Keys.FullHelp()), "Press any key to close", m.Width, m.Height)
	}

	return RenderApplicationContainer(
		m.renderContent(snap),
		status,
		m.Help.ShortHelpView(m.Keys.ShortHelp()),
		m.Width,
		m.Height,
	)
}

func (m DashboardModel) renderRevokeContent(snap console.Snapshot) string {
	if snap.PendingRevoke == nil {
		return "Nothing selected."
	}
	c := snap.PendingRevoke
	warning := lipgloss.NewStyle().Foreground(WarningColor).Bold(true).Render(
		fmt.Sprintf("Revoke access for %q? This will remove the peer immediately.", c.Name),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		warning,
		"",
		RenderField("ID:", c.ID.String()),
		RenderField("IP:", c.IP),
		RenderField("Key:", Truncate(c.PublicKey, 24)),
	)
}

func (m DashboardModel) renderContent(snap console.Snapshot) string {
	parts := []string{
		lipgloss.JoinHorizontal(lipgloss.Bottom,
			TitleStyle.MarginBottom(0).Render("Clients Registry"),
			"  ",
			RenderSubtitle("Manage VPN clients on "+m.BaseURL),
		),
		"",
		m.renderStats(snap),
	}

	if snap.Error != "" {
		parts = append(parts, RenderError(snap.Error))
	} else if snap.Success != "" {
		parts = append(parts, RenderSuccess(snap.Success))
	}

	if m.mode == modeSearch || snap.Search != "" {
		parts = append(parts, m.Search.View())
	}

	switch {
	case snap.Loading && len(snap.Clients) == 0:
		parts = append(parts, "", m.Spinner.View()+" Loading clients...")
	case len(snap.PageClients) == 0 && snap.Search != "":
		parts = append(parts, "", SubtitleStyle.Render("No clients found matching your search."))
	case len(snap.PageClients) == 0:
		parts = append(parts, "", SubtitleStyle.Render("No clients yet. Press n to create one."))
	default:
		parts = append(parts, m.Table.View())
	}

	parts = append(parts, "", m.renderPagination(snap))

	if line := m.renderActivity(snap); line != "" {
		parts = append(parts, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m DashboardModel) renderStats(snap console.Snapshot) string {
	stat := func(label, value string, color lipgloss.Color) string {
		return StatStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			LabelStyle.Render(strings.ToUpper(label)),
			lipgloss.NewStyle().Foreground(color).Bold(true).Render(value),
		))
	}

	apiStatus := "Checking"
	apiColor := SubtleColor
	switch snap.Health {
	case console.HealthOK:
		apiStatus, apiColor = "Healthy", SecondaryColor
	case console.HealthDown:
		apiStatus, apiColor = "Unreachable", ErrorColor
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Total Clients", strconv.Itoa(snap.Stats.Total), PrimaryColor),
		stat("Active IPs", strconv.Itoa(snap.Stats.Active), SecondaryColor),
		stat("API", apiStatus, apiColor),
	)
}

// renderPagination renders "Showing N of M clients" and the page buttons
func (m DashboardModel) renderPagination(snap console.Snapshot) string {
	showing := LabelStyle.Render(fmt.Sprintf("Showing %d of %d clients", len(snap.PageClients), len(snap.Filtered)))
	if snap.TotalPages <= 1 {
		return showing
	}

	current := lipgloss.NewStyle().Foreground(TextColor).Background(PrimaryColor).Bold(true).Padding(0, 1)
	other := lipgloss.NewStyle().Foreground(SubtleColor).Padding(0, 1)

	buttons := make([]string, 0, snap.TotalPages+2)
	buttons = append(buttons, arrow("‹", snap.Page > 1))
	for p := 1; p <= snap.TotalPages; p++ {
		if p == snap.Page {
			buttons = append(buttons, current.Render(strconv.Itoa(p)))
		} else {
			buttons = append(buttons, other.Render(strconv.Itoa(p)))
		}
	}
	buttons = append(buttons, arrow("›", snap.Page < snap.TotalPages))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		showing,
		"   ",
		lipgloss.JoinHorizontal(lipgloss.Top, buttons...),
		"   ",
		LabelStyle.Render(fmt.Sprintf("Page %d of %d", snap.Page, snap.TotalPages)),
	)
}

func arrow(s string, enabled bool) string {
	style := lipgloss.NewStyle().Padding(0, 1)
	if enabled {
		return style.Foreground(PrimaryColor).Bold(true).Render(s)
	}
	return style.Foreground(lipgloss.Color("238")).Render(s)
}

func (m DashboardModel) renderActivity(snap console.Snapshot) string {
	switch {
	case m.working != "":
		return m.Spinner.View() + " " + m.working
	case snap.Syncing:
		return m.Spinner.View() + " Syncing peers..."
	case m.notice != "":
		return NoticeStyle.Render(m.notice)
	}
	return ""
}
