// Package console holds the state of the admin console and every transition
// on it.
//
// Store is the single owner of authentication, the cached client list,
// search and pagination, modal visibility and the transient success/error
// banners. Front ends (the terminal UI and the CLI commands) call Store
// methods and render from Snapshot; nothing else talks to the API.
//
// # Concurrency
//
// Store methods may be called from multiple goroutines. Mutating operations
// (create, revoke, sync) share one in-flight guard and a second one started
// while another runs fails with ErrBusy without touching the network. List
// refreshes are last-fetch-wins: a response that arrives after a newer
// refresh was started is discarded.
//
// # Forced logout
//
// An unauthorized answer from any authenticated call, or a known token
// expiry passing, logs the operator out: the stored token is cleared along
// with the cached list.
package console
