// Package apitest provides an in-process fake of the peer-management API for tests.
//
// The fake keeps clients, users and issued tokens in memory and implements
// every endpoint the api package consumes. Failures can be injected per route.
//
//	srv := apitest.NewServer(t)
//	client := api.NewClient(srv.URL())
//	srv.FailNext("GET /api/clients", http.StatusUnauthorized, "")
package apitest

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// Default credentials accepted by the fake
const (
	DefaultUsername = "admin"
	DefaultPassword = "secret"
	DefaultToken    = "abc"
)

// Route keys for failure injection and request counting
const (
	RouteLogin         = "POST /auth/login"
	RouteListClients   = "GET /api/clients"
	RouteCreateClient  = "POST /api/clients"
	RouteCreateWithKey = "POST /api/clients/by-public-key"
	RouteDeleteClient  = "DELETE /api/clients/{id}"
	RouteSync          = "POST /api/sync"
	RouteHealth        = "GET /health"
)

// Client mirrors the wire shape of a client record
type Client struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PublicKey string `json:"publicKey"`
	IP        string `json:"ip"`
	CreatedAt string `json:"createdAt"`
	Revoked   int    `json:"revoked"`
}

// Failure is an injected response
type Failure struct {
	Status int
	Body   string
}

// Request is a recorded inbound request
type Request struct {
	Route         string
	Path          string
	Authorization string
	ContentType   string
	Body          string
}

// Server is a fake API server backed by httptest
type Server struct {
	t   testing.TB
	srv *httptest.Server

	mu        sync.Mutex
	users     map[string]string
	tokens    map[string]bool
	clients   []Client
	nextID    int
	failures  map[string][]Failure
	requests  []Request
	healthy   bool
	delay     map[string]time.Duration
	expiresIn string
}

// NewServer starts a fake API server that is closed with the test
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		t:         t,
		users:     map[string]string{DefaultUsername: DefaultPassword},
		tokens:    map[string]bool{},
		nextID:    1,
		failures:  map[string][]Failure{},
		healthy:   true,
		delay:     map[string]time.Duration{},
		expiresIn: "1h",
	}

	r := chi.NewRouter()
	r.Post("/auth/login", s.record(RouteLogin, s.handleLogin))
	r.Get("/health", s.record(RouteHealth, s.handleHealth))
	r.Route("/api", func(r chi.Router) {
		r.Get("/clients", s.record(RouteListClients, s.authed(s.handleList)))
		r.Post("/clients", s.record(RouteCreateClient, s.authed(s.handleCreate)))
		r.Post("/clients/by-public-key", s.record(RouteCreateWithKey, s.authed(s.handleCreateWithKey)))
		r.Delete("/clients/{id}", s.record(RouteDeleteClient, s.authed(s.handleDelete)))
		r.Post("/sync", s.record(RouteSync, s.authed(s.handleSync)))
	})

	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the base URL of the fake
func (s *Server) URL() string {
	return s.srv.URL
}

// AddUser registers extra credentials
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// IssueToken makes token valid without a login round trip
func (s *Server) IssueToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = true
}

// RevokeTokens invalidates every issued token
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = map[string]bool{}
}

// SetExpiresIn sets the expiresIn hint returned on login
func (s *Server) SetExpiresIn(hint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresIn = hint
}

// SetHealthy controls the /health answer
func (s *Server) SetHealthy(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthy = ok
}

// SetDelay makes a route sleep before answering
func (s *Server) SetDelay(route string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay[route] = d
}

// Seed adds clients with generated ids, IPs and keys
func (s *Server) Seed(names ...string) []Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Client, 0, len(names))
	for _, name := range names {
		out = append(out, s.addLocked(name, fakeKey(name+"-pub")))
	}
	return out
}

// Clients returns a copy of the stored clients
func (s *Server) Clients() []Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Client(nil), s.clients...)
}

// FailNext queues an injected response for the next request to route
func (s *Server) FailNext(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], Failure{Status: status, Body: body})
}

// Requests returns every recorded request
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns how many requests hit route
func (s *Server) Count(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Route == route {
			n++
		}
	}
	return n
}

func (s *Server) addLocked(name, publicKey string) Client {
	c := Client{
		ID:        strconv.Itoa(s.nextID),
		Name:      name,
		PublicKey: publicKey,
		IP:        fmt.Sprintf("10.0.0.%d", s.nextID+1),
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.nextID) * time.Hour).Format(time.RFC3339),
	}
	s.nextID++
	s.clients = append(s.clients, c)
	return c
}

// record captures the request and applies injected failures and delays
func (s *Server) record(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Route:         route,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          string(body),
		})
		delay := s.delay[route]
		var failure *Failure
		if queue := s.failures[route]; len(queue) > 0 {
			failure = &queue[0]
			s.failures[route] = queue[1:]
		}
		s.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}
		if failure != nil {
			w.WriteHeader(failure.Status)
			_, _ = w.Write([]byte(failure.Body))
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next(w, r)
	}
}

// authed rejects requests without a valid bearer token
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		ok := s.tokens[token]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if pw, ok := s.users[req.Username]; !ok || pw != req.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_credentials"})
		return
	}
	s.tokens[DefaultToken] = true
	writeJSON(w, http.StatusOK, map[string]string{
		"tokenType": "Bearer",
		"token":     DefaultToken,
		"expiresIn": s.expiresIn,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ok := s.healthy
	s.mu.Unlock()
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]bool{"ok": ok})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Clients())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name_required"})
		return
	}

	s.mu.Lock()
	c := s.addLocked(req.Name, fakeKey(req.Name+"-pub"))
	s.mu.Unlock()

	privateKey := fakeKey(req.Name + "-priv")
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"publicKey":  c.PublicKey,
		"ip":         c.IP,
		"createdAt":  c.CreatedAt,
		"revoked":    c.Revoked,
		"privateKey": privateKey,
		"config": fmt.Sprintf("[Interface]\nPrivateKey = %s\nAddress = %s/32\n\n[Peer]\nPublicKey = %s\nEndpoint = vpn.example.com:51820\nAllowedIPs = 0.0.0.0/0\n",
			privateKey, c.IP, fakeKey("server")),
	})
}

func (s *Server) handleCreateWithKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		PublicKey string `json:"publicKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "name_required"})
		return
	}
	if len(req.PublicKey) != 44 || !strings.HasSuffix(req.PublicKey, "=") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_public_key"})
		return
	}

	s.mu.Lock()
	c := s.addLocked(req.Name, req.PublicKey)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.clients {
		if c.ID == id {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	applied := 0
	for _, c := range s.clients {
		if c.Revoked == 0 {
			applied++
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "appliedPeers": applied})
}

// FakeKey derives a stable, well-formed WireGuard key from seed
func FakeKey(seed string) string {
	return fakeKey(seed)
}

func fakeKey(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
