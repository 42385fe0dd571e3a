// Package session persists the API bearer token between runs and derives
// its expiry.
//
// A single token is stored under the key "wg_token". Three backends exist:
//
//   - keyring: the OS credential store via go-keyring
//   - file: a 0600 file in the wgadmin config directory
//   - memory: process-local, lost on exit
//
// Open("auto", dir) probes the OS keyring and falls back to the file store
// when no keyring service is reachable (headless servers, containers).
//
// # Expiry
//
// ParseExpiry prefers the exp claim of a JWT token and otherwise interprets
// the server's expiresIn hint ("1h", "7d", "3600"). Signatures are never
// verified; the server remains the authority and answers 401 on a bad token.
package session
