package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wgadmin/wgadmin/internal/api"
	"github.com/wgadmin/wgadmin/internal/logging"
	"github.com/wgadmin/wgadmin/internal/session"
)

// Banner texts
const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgLoginFailed        = "Login failed"
	MsgLoadFailed         = "Could not load clients"
	MsgCreateFailed       = "Failed to create client"
	MsgRevokeFailed       = "Failed to revoke client"
	MsgSyncFailed         = "Sync failed"
	MsgSessionExpired     = "Session expired, please sign in again"
)

var (
	// ErrBusy is returned when a mutating operation is already running
	ErrBusy = errors.New("Another operation is still running")

	// ErrNotAuthenticated is returned by operations that need a token
	ErrNotAuthenticated = errors.New("not signed in")

	// ErrNameRequired is returned when a client name is blank
	ErrNameRequired = errors.New("client name is required")
)

// APIClient is the subset of the API the console drives
type APIClient interface {
	Login(ctx context.Context, username, password string) (*api.LoginResponse, error)
	ListClients(ctx context.Context, token string) ([]api.Client, error)
	CreateClient(ctx context.Context, token, name string) (*api.CreateClientResponse, error)
	CreateClientWithKey(ctx context.Context, token, name, publicKey string) (*api.CreateClientResponse, error)
	DeleteClient(ctx context.Context, token string, id api.ClientID) error
	Sync(ctx context.Context, token string) (*api.SyncResponse, error)
	CheckHealth(ctx context.Context) (*api.HealthResponse, error)
}

var _ APIClient = (*api.HTTPClient)(nil)

// Auth is the authentication state. IsAuthenticated is true exactly when Token is set.
type Auth struct {
	Token           string
	IsAuthenticated bool
	ExpiresAt       time.Time // Zero when unknown
}

// Health is the last observed API health
type Health int

const (
	HealthUnknown Health = iota
	HealthOK
	HealthDown
)

// String returns a human-readable health label
func (h Health) String() string {
	switch h {
	case HealthOK:
		return "healthy"
	case HealthDown:
		return "unreachable"
	default:
		return "unknown"
	}
}

// ClientRequest is the create-client form payload. An empty PublicKey asks
// the server to generate the keypair.
type ClientRequest struct {
	Name      string
	PublicKey string
}

// Store is the console state container
type Store struct {
	api    APIClient
	tokens session.Store
	now    func() time.Time

	mu            sync.Mutex
	auth          Auth
	clients       []api.Client
	loading       bool
	errMsg        string
	successMsg    string
	createOpen    bool
	created       *api.CreateClientResponse
	createGen     uint64 // bumped whenever the create modal opens or closes
	search        string
	page          int
	syncing       bool
	creating      bool
	busy          bool
	pendingRevoke *api.Client
	health        Health
	fetchSeq      uint64
}

// NewStore creates a Store that is not yet authenticated; call Bootstrap to
// pick up a persisted token
func NewStore(client APIClient, tokens session.Store) *Store {
	if tokens == nil {
		tokens = session.NewMemoryStore()
	}
	return &Store{
		api:    client,
		tokens: tokens,
		now:    time.Now,
		page:   1,
	}
}

// SetClock replaces the time source. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Bootstrap restores a persisted token and, when one is found, fetches the
// client list. The JWT exp claim wins over the expiry recorded at login; a
// token past either is discarded.
func (s *Store) Bootstrap(ctx context.Context) error {
	token := session.LoadOptional(s.tokens)
	if token == "" {
		return nil
	}
	expiresAt, ok := session.ParseExpiry(token, "", time.Time{})
	if !ok {
		expiresAt = session.LoadExpiryOptional(s.tokens)
	}

	s.mu.Lock()
	if !expiresAt.IsZero() && !s.now().Before(expiresAt) {
		s.clearTokenLocked()
		s.errMsg = MsgSessionExpired
		s.mu.Unlock()
		logging.Info("Discarded expired stored token",
			zap.Time("expires_at", expiresAt),
		)
		return nil
	}
	s.auth = Auth{Token: token, IsAuthenticated: true, ExpiresAt: expiresAt}
	s.mu.Unlock()

	logging.LogStateChange("unauthenticated", "authenticated", "stored token")
	return s.FetchClients(ctx)
}

// Login exchanges credentials for a token, persists it and loads the client list.
// A failed login leaves the store unauthenticated and nothing persisted.
func (s *Store) Login(ctx context.Context, username, password string) error {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	resp, err := s.api.Login(ctx, username, password)
	if err == nil && (resp == nil || resp.Token == "") {
		err = api.ErrMissingToken
	}
	if err != nil {
		s.mu.Lock()
		s.loading = false
		if api.IsInvalidCredentials(err) {
			s.errMsg = MsgInvalidCredentials
		} else {
			s.errMsg = MsgLoginFailed
		}
		s.mu.Unlock()
		logging.Info("Login failed",
			zap.String("username", username),
			zap.Error(err),
		)
		return err
	}

	s.mu.Lock()
	now := s.now()
	s.mu.Unlock()
	expiresAt, _ := session.ParseExpiry(resp.Token, resp.ExpiresIn, now)

	if err := s.tokens.Save(resp.Token); err != nil {
		logging.Warn("Failed to persist token, session will not survive a restart",
			zap.String("store", s.tokens.Kind()),
			zap.Error(err),
		)
	} else if err := s.tokens.SaveExpiry(expiresAt); err != nil {
		logging.Warn("Failed to persist token expiry",
			zap.String("store", s.tokens.Kind()),
			zap.Error(err),
		)
	}

	s.mu.Lock()
	s.auth = Auth{Token: resp.Token, IsAuthenticated: true, ExpiresAt: expiresAt}
	s.loading = false
	s.mu.Unlock()

	logging.LogStateChange("unauthenticated", "authenticated", "login")
	logging.Debug("Token issued",
		zap.String("token", logging.Redact(resp.Token)),
		zap.Time("expires_at", expiresAt),
	)

	// A failed first fetch is reported through the banner; the login itself succeeded
	_ = s.FetchClients(ctx)
	return nil
}

// Logout clears the persisted token and all authenticated state
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutLocked("logout")
}

// logoutLocked resets auth and the client cache. Banners are left alone so a
// forced logout can explain itself.
func (s *Store) logoutLocked(reason string) {
	wasAuthenticated := s.auth.IsAuthenticated
	s.clearTokenLocked()
	s.auth = Auth{}
	s.clients = nil
	s.loading = false
	s.createOpen = false
	s.created = nil
	s.createGen++
	s.pendingRevoke = nil
	s.search = ""
	s.page = 1
	// Invalidate any list fetch still in flight
	s.fetchSeq++
	if wasAuthenticated {
		logging.LogStateChange("authenticated", "unauthenticated", reason)
	}
}

func (s *Store) clearTokenLocked() {
	if err := s.tokens.Clear(); err != nil {
		logging.Warn("Failed to clear stored token",
			zap.String("store", s.tokens.Kind()),
			zap.Error(err),
		)
	}
}

// handleAuthFailureLocked forces a logout when err is unauthorized
func (s *Store) handleAuthFailureLocked(err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	s.logoutLocked("unauthorized")
	s.errMsg = MsgSessionExpired
	return true
}

// CheckExpiry logs out once a known token expiry has passed.
// It reports whether a logout happened.
func (s *Store) CheckExpiry() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.auth.IsAuthenticated || s.auth.ExpiresAt.IsZero() {
		return false
	}
	if s.now().Before(s.auth.ExpiresAt) {
		return false
	}
	s.logoutLocked("token expired")
	s.errMsg = MsgSessionExpired
	return true
}

// FetchClients replaces the cached list with the server's. The loading flag
// is always cleared afterwards; a response overtaken by a newer fetch is dropped.
func (s *Store) FetchClients(ctx context.Context) error {
	s.mu.Lock()
	if !s.auth.IsAuthenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.fetchSeq++
	seq := s.fetchSeq
	token := s.auth.Token
	s.loading = true
	s.mu.Unlock()

	clients, err := s.api.ListClients(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.fetchSeq {
		logging.Debug("Dropping stale client list",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", s.fetchSeq),
		)
		return nil
	}
	s.loading = false

	if err != nil {
		if !s.handleAuthFailureLocked(err) {
			s.errMsg = MsgLoadFailed
		}
		logging.Warn("Failed to fetch clients", zap.Error(err))
		return err
	}

	s.clients = clients
	s.clampLocked()
	logging.Debug("Client list refreshed", zap.Int("count", len(clients)))
	return nil
}

// beginMutation takes the in-flight guard and returns the token to use
func (s *Store) beginMutation() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.auth.IsAuthenticated {
		return "", ErrNotAuthenticated
	}
	if s.busy {
		return "", ErrBusy
	}
	s.busy = true
	return s.auth.Token, nil
}

func (s *Store) endMutationLocked() {
	s.busy = false
}

// CreateClient creates a client, keyed when req.PublicKey is set. On success
// the result is held for the config viewer and the list is re-fetched.
func (s *Store) CreateClient(ctx context.Context, req ClientRequest) (*api.CreateClientResponse, error) {
	name := strings.TrimSpace(req.Name)
	publicKey := strings.TrimSpace(req.PublicKey)
	if name == "" {
		return nil, ErrNameRequired
	}

	token, err := s.beginMutation()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.creating = true
	s.created = nil
	gen := s.createGen
	s.mu.Unlock()

	var resp *api.CreateClientResponse
	if publicKey != "" {
		resp, err = s.api.CreateClientWithKey(ctx, token, name, publicKey)
	} else {
		resp, err = s.api.CreateClient(ctx, token, name)
	}

	s.mu.Lock()
	s.creating = false
	s.endMutationLocked()
	if err != nil {
		if !s.handleAuthFailureLocked(err) {
			s.errMsg = createErrorMessage(err)
		}
		s.mu.Unlock()
		logging.Warn("Failed to create client",
			zap.String("name", name),
			zap.Bool("keyed", publicKey != ""),
			zap.Error(err),
		)
		return nil, err
	}
	// A result whose modal was closed in the meantime is not kept
	if gen == s.createGen {
		s.created = resp
	}
	s.successMsg = fmt.Sprintf("Client %s created successfully.", resp.Name)
	s.mu.Unlock()

	logging.Info("Client created",
		zap.String("id", resp.ID.String()),
		zap.String("name", resp.Name),
		zap.String("ip", resp.IP),
	)

	_ = s.FetchClients(ctx)
	return resp, nil
}

func createErrorMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return api.ShortMessage(err)
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgCreateFailed
}

// RequestRevoke marks a cached client for revocation pending confirmation
func (s *Store) RequestRevoke(id api.ClientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := FindClient(s.clients, id)
	if !ok {
		return fmt.Errorf("client %s is not in the list", id)
	}
	s.pendingRevoke = &c
	return nil
}

// PendingRevoke returns the client awaiting confirmation
func (s *Store) PendingRevoke() (api.Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingRevoke == nil {
		return api.Client{}, false
	}
	return *s.pendingRevoke, true
}

// CancelRevoke drops the pending revocation without calling the API
func (s *Store) CancelRevoke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingRevoke = nil
}

// ConfirmRevoke revokes the pending client
func (s *Store) ConfirmRevoke(ctx context.Context) error {
	s.mu.Lock()
	pending := s.pendingRevoke
	s.pendingRevoke = nil
	s.mu.Unlock()

	if pending == nil {
		return errors.New("no revocation pending")
	}
	return s.Revoke(ctx, pending.ID)
}

// Revoke deletes the client with id and removes it from the cached list
// without re-fetching
func (s *Store) Revoke(ctx context.Context, id api.ClientID) error {
	token, err := s.beginMutation()
	if err != nil {
		return err
	}

	s.mu.Lock()
	name := id.String()
	if c, ok := FindClient(s.clients, id); ok {
		name = c.Name
	}
	s.mu.Unlock()

	err = s.api.DeleteClient(ctx, token, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.endMutationLocked()
	if err != nil {
		if !s.handleAuthFailureLocked(err) {
			s.errMsg = MsgRevokeFailed
		}
		logging.Warn("Failed to revoke client",
			zap.String("id", id.String()),
			zap.Error(err),
		)
		return err
	}

	s.clients = removeClient(s.clients, id)
	s.clampLocked()
	s.successMsg = fmt.Sprintf("Revoked access for %s", name)
	logging.Info("Client revoked",
		zap.String("id", id.String()),
		zap.String("name", name),
	)
	return nil
}

// Sync applies the peer registry on the server and re-fetches the list
func (s *Store) Sync(ctx context.Context) (*api.SyncResponse, error) {
	token, err := s.beginMutation()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.syncing = true
	s.mu.Unlock()

	resp, err := s.api.Sync(ctx, token)

	s.mu.Lock()
	s.syncing = false
	s.endMutationLocked()
	if err != nil {
		if !s.handleAuthFailureLocked(err) {
			s.errMsg = MsgSyncFailed
		}
		s.mu.Unlock()
		logging.Warn("Sync failed", zap.Error(err))
		return nil, err
	}
	s.successMsg = fmt.Sprintf("Successfully synced %d peers to WireGuard kernel.", resp.AppliedPeers)
	s.mu.Unlock()

	logging.Info("Sync complete", zap.Int("applied_peers", resp.AppliedPeers))
	_ = s.FetchClients(ctx)
	return resp, nil
}

// CheckHealth refreshes the health indicator. It never gates other actions.
func (s *Store) CheckHealth(ctx context.Context) Health {
	resp, err := s.api.CheckHealth(ctx)

	h := HealthDown
	if err == nil && resp.OK {
		h = HealthOK
	}
	if err != nil {
		logging.Debug("Health check failed", zap.Error(err))
	}

	s.mu.Lock()
	s.health = h
	s.mu.Unlock()
	return h
}

// SetSearch updates the filter term and clamps the page
func (s *Store) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = term
	s.clampLocked()
}

// SetPage moves to page, clamped to the available range
func (s *Store) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = ClampPage(page, s.totalPagesLocked())
}

// NextPage advances one page if possible
func (s *Store) NextPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = ClampPage(s.page+1, s.totalPagesLocked())
}

// PrevPage goes back one page if possible
func (s *Store) PrevPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = ClampPage(s.page-1, s.totalPagesLocked())
}

func (s *Store) totalPagesLocked() int {
	return PageCount(len(FilterClients(s.clients, s.search)))
}

func (s *Store) clampLocked() {
	s.page = ClampPage(s.page, s.totalPagesLocked())
}

// OpenCreate shows the create modal, discarding any previous result
func (s *Store) OpenCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = nil
	s.createOpen = true
	s.createGen++
}

// CloseCreate hides the create modal and discards the created client
func (s *Store) CloseCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createOpen = false
	s.created = nil
	s.createGen++
}

// DismissError clears the error banner
func (s *Store) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = ""
}

// DismissSuccess clears the success banner
func (s *Store) DismissSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successMsg = ""
}

// Snapshot is a consistent, read-only copy of the store for rendering
type Snapshot struct {
	Auth          Auth
	Clients       []api.Client
	Filtered      []api.Client
	PageClients   []api.Client
	Page          int
	TotalPages    int
	Search        string
	Stats         Stats
	Loading       bool
	Syncing       bool
	Creating      bool
	Busy          bool
	Error         string
	Success       string
	CreateOpen    bool
	Created       *api.CreateClientResponse
	PendingRevoke *api.Client
	Health        Health
	Now           time.Time
}

// Snapshot returns the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := FilterClients(s.clients, s.search)
	snap := Snapshot{
		Auth:        s.auth,
		Clients:     append([]api.Client(nil), s.clients...),
		Filtered:    filtered,
		PageClients: Paginate(filtered, s.page),
		Page:        s.page,
		TotalPages:  PageCount(len(filtered)),
		Search:      s.search,
		Stats:       ComputeStats(s.clients),
		Loading:     s.loading,
		Syncing:     s.syncing,
		Creating:    s.creating,
		Busy:        s.busy,
		Error:       s.errMsg,
		Success:     s.successMsg,
		CreateOpen:  s.createOpen,
		Health:      s.health,
		Now:         s.now(),
	}
	if s.created != nil {
		created := *s.created
		snap.Created = &created
	}
	if s.pendingRevoke != nil {
		pending := *s.pendingRevoke
		snap.PendingRevoke = &pending
	}
	return snap
}

// IsAuthenticated reports whether a token is held
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auth.IsAuthenticated
}

// TimeLeft returns the remaining session time; ok is false when expiry is unknown
func (snap Snapshot) TimeLeft() (time.Duration, bool) {
	if !snap.Auth.IsAuthenticated || snap.Auth.ExpiresAt.IsZero() {
		return 0, false
	}
	return snap.Auth.ExpiresAt.Sub(snap.Now), true
}
