package console

import (
	"strings"

	"github.com/wgadmin/wgadmin/internal/api"
)

// PageSize is the number of clients shown per page
const PageSize = 8

// Stats summarises the cached client list
type Stats struct {
	Total  int
	Active int
}

// FilterClients returns the clients whose name, IP or public key contains
// term, case-insensitively, preserving order. Whitespace in term is part of
// the match. Only the empty term matches all.
func FilterClients(clients []api.Client, term string) []api.Client {
	if term == "" {
		return append([]api.Client(nil), clients...)
	}

	needle := strings.ToLower(term)
	out := make([]api.Client, 0, len(clients))
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.IP), needle) ||
			strings.Contains(strings.ToLower(c.PublicKey), needle) {
			out = append(out, c)
		}
	}
	return out
}

// PageCount returns ceil(n / PageSize)
func PageCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

// ClampPage bounds page to [1, totalPages], yielding 1 when there are no pages
func ClampPage(page, totalPages int) int {
	return max(1, min(page, totalPages))
}

// Paginate returns the 1-based page of clients. Out-of-range pages are empty.
func Paginate(clients []api.Client, page int) []api.Client {
	if page < 1 {
		return nil
	}
	start := (page - 1) * PageSize
	if start >= len(clients) {
		return nil
	}
	end := min(start+PageSize, len(clients))
	return clients[start:end]
}

// ComputeStats counts total and non-revoked clients
func ComputeStats(clients []api.Client) Stats {
	s := Stats{Total: len(clients)}
	for _, c := range clients {
		if !c.IsRevoked() {
			s.Active++
		}
	}
	return s
}

// FindClient returns the client with id
func FindClient(clients []api.Client, id api.ClientID) (api.Client, bool) {
	for _, c := range clients {
		if c.ID == id {
			return c, true
		}
	}
	return api.Client{}, false
}

// removeClient drops every entry with id
func removeClient(clients []api.Client, id api.ClientID) []api.Client {
	out := make([]api.Client, 0, len(clients))
	for _, c := range clients {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
