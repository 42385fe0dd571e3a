package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// LoginResponse is returned by a successful POST /auth/login
type LoginResponse struct {
	TokenType string `json:"tokenType"`
	Token     string `json:"token"`
	ExpiresIn string `json:"expiresIn"` // Expiry hint, e.g. "1h"
}

// ClientID is the server-assigned peer identifier.
// The API documents it as a string but some deployments emit a bare number,
// so both encodings are accepted.
type ClientID string

// UnmarshalJSON accepts "1" as well as 1
func (id *ClientID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ClientID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("client id must be a string or number: %w", err)
	}
	*id = ClientID(n.String())
	return nil
}

// String returns the identifier as a plain string
func (id ClientID) String() string {
	return string(id)
}

// Client is a VPN peer record owned by the remote service
type Client struct {
	ID        ClientID `json:"id"`
	Name      string   `json:"name"`
	PublicKey string   `json:"publicKey"`
	IP        string   `json:"ip"`
	CreatedAt string   `json:"createdAt"` // Timestamp as sent by the server
	Revoked   int      `json:"revoked"`   // 0 = active, 1 = revoked
}

// IsRevoked reports whether the revoked flag is set
func (c Client) IsRevoked() bool {
	return c.Revoked != 0
}

// createdAtLayouts are the timestamp formats observed from the API
var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// CreatedTime parses CreatedAt. ok is false when the value matches no known layout.
func (c Client) CreatedTime() (t time.Time, ok bool) {
	raw := strings.TrimSpace(c.CreatedAt)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range createdAtLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// CreatedDate renders CreatedAt as a date, falling back to the raw value
func (c Client) CreatedDate() string {
	if t, ok := c.CreatedTime(); ok {
		return t.Format("2006-01-02")
	}
	return c.CreatedAt
}

// CreateClientResponse is a Client plus the material the server generated.
// Config and PrivateKey are only present when the server generated the keypair.
type CreateClientResponse struct {
	Client
	Config     string `json:"config,omitempty"`
	PrivateKey string `json:"privateKey,omitempty"`
}

// HasConfig reports whether the server returned a client configuration
func (r CreateClientResponse) HasConfig() bool {
	return r.Config != ""
}

// ConfigFileName is the file name used when saving the generated config
func (r CreateClientResponse) ConfigFileName() string {
	return ConfigFileName(r.Name)
}

// ConfigFileName returns "wg-<name>.conf" for a client name
func ConfigFileName(name string) string {
	return fmt.Sprintf("wg-%s.conf", name)
}

// SyncResponse is the result of POST /api/sync
type SyncResponse struct {
	OK           bool `json:"ok"`
	AppliedPeers int  `json:"appliedPeers"` // Peers applied to the live configuration
}

// HealthResponse is the result of GET /health
type HealthResponse struct {
	OK bool `json:"ok"`
}

// Request bodies

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createClientRequest struct {
	Name string `json:"name"`
}

type createClientWithKeyRequest struct {
	Name      string `json:"name"`
	PublicKey string `json:"publicKey"`
}

// errorBody is the optional JSON error payload, e.g. {"error":"invalid_credentials"}
type errorBody struct {
	Error string `json:"error"`
}
