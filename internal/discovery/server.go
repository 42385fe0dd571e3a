package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Server is an admin API instance advertised on the local network
type Server struct {
	// Name is the mDNS instance name (e.g., "office-gateway")
	Name string

	// Hostname is the advertised host (e.g., "gw1.local.")
	Hostname string

	// IP is the preferred address, IPv4 when one was advertised
	IP string

	Port int

	// Metadata holds the TXT record. Known keys: "scheme", "path", "version".
	Metadata map[string]string

	DiscoveredAt time.Time
}

// String returns a human-readable description of the server
func (s *Server) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Name, s.Hostname, s.BaseURL())
}

// Scheme is "https" when the TXT record asks for it, "http" otherwise
func (s *Server) Scheme() string {
	if strings.EqualFold(s.GetMetadata("scheme"), "https") {
		return "https"
	}
	return "http"
}

// BaseURL returns the API base URL, including any advertised path prefix
func (s *Server) BaseURL() string {
	host := net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
	path := strings.Trim(s.GetMetadata("path"), "/")
	if path == "" {
		return s.Scheme() + "://" + host
	}
	return s.Scheme() + "://" + host + "/" + path
}

// Version returns the advertised server version, or "" if none
func (s *Server) Version() string {
	return s.GetMetadata("version")
}

// GetMetadata retrieves a TXT value by key, or returns empty string if not found
func (s *Server) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
