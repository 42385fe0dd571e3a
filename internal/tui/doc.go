// Package tui implements the full-screen terminal console for the WireGuard
// admin API.
//
// Built on Bubble Tea, it follows the Elm architecture: every screen is a
// Model-Update-View value. All state that matters lives in a console.Store;
// screens call Store methods inside tea.Cmds and render from its Snapshot,
// so the terminal is only ever a view of the store.
//
// # Architecture
//
// AppModel switches between two screens, following the store's auth state:
//   - Login: username and password, with the username prefilled from config
//   - Dashboard: stats, search, the paginated client table and its modals
//
// The dashboard owns three modals built on Modal:
//   - ClientForm: name plus an optional operator-supplied public key
//   - ConfigView: the created client's IP and config, with copy and save
//   - revoke confirmation naming the client
//
// Every screen uses RenderApplicationContainer for the header (version,
// API health, session time left), content and context-sensitive footer.
//
// # Usage Example
//
//	store := console.NewStore(api.NewClient(baseURL), tokens)
//	err := tui.Run(tui.Options{
//	    Store:       store,
//	    BaseURL:     baseURL,
//	    Username:    "admin",
//	    DownloadDir: ".",
//	})
package tui
