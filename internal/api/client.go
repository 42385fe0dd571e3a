package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wgadmin/wgadmin/internal/logging"
	"github.com/wgadmin/wgadmin/internal/version"
)

const (
	// DefaultBaseURL is the API address used when nothing else is configured
	DefaultBaseURL = "http://localhost:9191"

	// DefaultTimeout bounds a single request end to end
	DefaultTimeout = 15 * time.Second

	// RequestIDHeader carries a per-request correlation id
	RequestIDHeader = "X-Request-ID"
)

// API paths
const (
	pathLogin           = "/auth/login"
	pathClients         = "/api/clients"
	pathClientsByPubKey = "/api/clients/by-public-key"
	pathClient          = "/api/clients/{id}"
	pathSync            = "/api/sync"
	pathHealth          = "/health"
)

// Generic failure messages, one per operation
const (
	msgFetchFailed  = "Failed to fetch clients"
	msgCreateFailed = "Failed to create client"
	msgDeleteFailed = "Failed to delete client"
	msgSyncFailed   = "Failed to sync"
	msgHealthFailed = "Health check failed"
)

// HTTPClient talks to the peer-management API.
// HTTPClient instances are safe for concurrent use.
type HTTPClient struct {
	baseURL string
	resty   *resty.Client
}

// NewClient creates an API client for baseURL (e.g. "http://10.0.0.1:9191")
func NewClient(baseURL string) *HTTPClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", version.UserAgent()).
		SetLogger(logging.GetLogger().Sugar())

	r.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		id := uuid.NewString()
		req.SetHeader(RequestIDHeader, id)
		logging.LogAPIRequest(req.Method, req.URL, id)
		return nil
	})
	r.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logging.LogAPIResponse(
			resp.Request.Method,
			resp.Request.URL,
			resp.StatusCode(),
			resp.Time(),
			resp.Request.Header.Get(RequestIDHeader),
		)
		return nil
	})

	return &HTTPClient{
		baseURL: baseURL,
		resty:   r,
	}
}

// BaseURL returns the API base URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// SetTimeout sets the overall request timeout; 0 disables it
func (c *HTTPClient) SetTimeout(timeout time.Duration) {
	c.resty.SetTimeout(timeout)
}

// request starts a request with the shared context and optional bearer token
func (c *HTTPClient) request(ctx context.Context, token string) *resty.Request {
	req := c.resty.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// Login exchanges credentials for a bearer token.
// A rejected login yields KindInvalidCredentials, or KindGeneric carrying the
// server-supplied message when the server names a different reason.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	const op = "login"

	resp, err := c.request(ctx, "").
		SetBody(&loginRequest{Username: username, Password: password}).
		Post(pathLogin)
	if err != nil {
		return nil, newNetworkError(op, err)
	}

	if !resp.IsSuccess() {
		message := CodeInvalidCredentials
		var body errorBody
		// A missing or malformed body falls back to invalid_credentials
		if json.Unmarshal(resp.Body(), &body) == nil && body.Error != "" {
			message = body.Error
		}
		kind := KindGeneric
		if message == CodeInvalidCredentials {
			kind = KindInvalidCredentials
		}
		return nil, newStatusError(op, kind, resp.StatusCode(), message)
	}

	var result LoginResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, newDecodeError(op, resp.StatusCode(), err)
	}
	if strings.TrimSpace(result.Token) == "" {
		return nil, newDecodeError(op, resp.StatusCode(), ErrMissingToken)
	}
	return &result, nil
}

// ListClients returns every client record in server order
func (c *HTTPClient) ListClients(ctx context.Context, token string) ([]Client, error) {
	const op = "list clients"

	resp, err := c.request(ctx, token).Get(pathClients)
	if err != nil {
		return nil, newNetworkError(op, err)
	}
	if err := checkStatus(op, resp, msgFetchFailed, nil); err != nil {
		return nil, err
	}

	var clients []Client
	if err := json.Unmarshal(resp.Body(), &clients); err != nil {
		return nil, newDecodeError(op, resp.StatusCode(), err)
	}
	if clients == nil {
		clients = []Client{}
	}
	return clients, nil
}

// CreateClient asks the server to allocate an IP, generate a keypair and
// return the full client configuration
func (c *HTTPClient) CreateClient(ctx context.Context, token, name string) (*CreateClientResponse, error) {
	const op = "create client"

	resp, err := c.request(ctx, token).
		SetBody(&createClientRequest{Name: name}).
		Post(pathClients)
	if err != nil {
		return nil, newNetworkError(op, err)
	}
	if err := checkStatus(op, resp, msgCreateFailed, nil); err != nil {
		return nil, err
	}

	var result CreateClientResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, newDecodeError(op, resp.StatusCode(), err)
	}
	return &result, nil
}

// CreateClientWithKey registers a client for an operator-supplied public key.
// The response never carries config or private key material.
func (c *HTTPClient) CreateClientWithKey(ctx context.Context, token, name, publicKey string) (*CreateClientResponse, error) {
	const op = "create client with key"

	resp, err := c.request(ctx, token).
		SetBody(&createClientWithKeyRequest{Name: name, PublicKey: publicKey}).
		Post(pathClientsByPubKey)
	if err != nil {
		return nil, newNetworkError(op, err)
	}
	err = checkStatus(op, resp, msgCreateFailed, map[int]ErrorKind{
		http.StatusBadRequest: KindInvalidPublicKey,
	})
	if err != nil {
		return nil, err
	}

	var result CreateClientResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, newDecodeError(op, resp.StatusCode(), err)
	}
	if result.Config != "" || result.PrivateKey != "" {
		logging.Warn("Server returned key material for an externally keyed client, discarding",
			zap.String("client", result.Name),
		)
		result.Config = ""
		result.PrivateKey = ""
	}
	return &result, nil
}

// DeleteClient revokes the client with the given id
func (c *HTTPClient) DeleteClient(ctx context.Context, token string, id ClientID) error {
	const op = "delete client"

	if id == "" {
		return newStatusError(op, KindGeneric, 0, "client id is required")
	}

	resp, err := c.request(ctx, token).
		SetPathParam("id", id.String()).
		Delete(pathClient)
	if err != nil {
		return newNetworkError(op, err)
	}
	return checkStatus(op, resp, msgDeleteFailed, map[int]ErrorKind{
		http.StatusNotFound: KindNotFound,
	})
}

// Sync asks the server to apply the peer registry to the live interface
func (c *HTTPClient) Sync(ctx context.Context, token string) (*SyncResponse, error) {
	const op = "sync"

	resp, err := c.request(ctx, token).Post(pathSync)
	if err != nil {
		return nil, newNetworkError(op, err)
	}
	if err := checkStatus(op, resp, msgSyncFailed, nil); err != nil {
		return nil, err
	}

	var result SyncResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, newDecodeError(op, resp.StatusCode(), err)
	}
	return &result, nil
}

// CheckHealth queries the unauthenticated health endpoint.
// The body is trusted even on a non-success status; only an unreadable body fails.
func (c *HTTPClient) CheckHealth(ctx context.Context) (*HealthResponse, error) {
	const op = "health check"

	resp, err := c.request(ctx, "").Get(pathHealth)
	if err != nil {
		return nil, newNetworkError(op, err)
	}

	var result HealthResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		if !resp.IsSuccess() {
			return nil, newStatusError(op, KindGeneric, resp.StatusCode(), msgHealthFailed)
		}
		return nil, newDecodeError(op, resp.StatusCode(), err)
	}
	return &result, nil
}

// checkStatus maps a non-success response to an *APIError.
// 401 is always KindUnauthorized on authenticated endpoints; extra maps
// endpoint-specific statuses; everything else is KindGeneric with fallback.
func checkStatus(op string, resp *resty.Response, fallback string, extra map[int]ErrorKind) error {
	if resp.IsSuccess() {
		return nil
	}

	status := resp.StatusCode()
	if status == http.StatusUnauthorized {
		return newStatusError(op, KindUnauthorized, status, CodeUnauthorized)
	}
	if kind, ok := extra[status]; ok {
		return newStatusError(op, kind, status, kind.Code())
	}
	return newStatusError(op, KindGeneric, status, fallback)
}
