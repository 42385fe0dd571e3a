package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// ErrorKind represents the category of an API failure
type ErrorKind int

const (
	// KindGeneric is any non-success response without a dedicated kind
	KindGeneric ErrorKind = iota
	// KindInvalidCredentials indicates a rejected login
	KindInvalidCredentials
	// KindUnauthorized indicates a missing, invalid or expired bearer token (HTTP 401)
	KindUnauthorized
	// KindInvalidPublicKey indicates the server rejected an operator-supplied key (HTTP 400)
	KindInvalidPublicKey
	// KindNotFound indicates the addressed client does not exist (HTTP 404)
	KindNotFound
	// KindNetwork indicates the request never produced an HTTP response
	KindNetwork
	// KindDecode indicates a success response whose body could not be parsed
	KindDecode
)

// ErrMissingToken is wrapped in the KindDecode error returned when a
// successful login response carries no token
var ErrMissingToken = errors.New("login response has no token")

// Wire identifiers for the semantic kinds
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthorized       = "unauthorized"
	CodeInvalidPublicKey   = "invalid_public_key"
	CodeNotFound           = "not_found"
)

// String returns a human-readable name for the kind
func (k ErrorKind) String() string {
	switch k {
	case KindGeneric:
		return "API Error"
	case KindInvalidCredentials:
		return "Invalid Credentials"
	case KindUnauthorized:
		return "Unauthorized"
	case KindInvalidPublicKey:
		return "Invalid Public Key"
	case KindNotFound:
		return "Not Found"
	case KindNetwork:
		return "Network Error"
	case KindDecode:
		return "Decode Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// Code returns the semantic identifier, or "" for the unlabeled generic kinds
func (k ErrorKind) Code() string {
	switch k {
	case KindInvalidCredentials:
		return CodeInvalidCredentials
	case KindUnauthorized:
		return CodeUnauthorized
	case KindInvalidPublicKey:
		return CodeInvalidPublicKey
	case KindNotFound:
		return CodeNotFound
	default:
		return ""
	}
}

// APIError is returned by every Client method on failure
type APIError struct {
	Kind       ErrorKind // Semantic category
	Op         string    // Operation, e.g. "list clients"
	Message    string    // Server-supplied or generic message
	StatusCode int       // HTTP status (0 when no response was received)
	Err        error     // Underlying error, if any
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Unwrap returns the underlying error for error chain inspection
func (e *APIError) Unwrap() error {
	return e.Err
}

// newStatusError creates an error for a non-success HTTP response
func newStatusError(op string, kind ErrorKind, status int, message string) *APIError {
	return &APIError{
		Kind:       kind,
		Op:         op,
		Message:    message,
		StatusCode: status,
	}
}

// newNetworkError wraps a transport failure
func newNetworkError(op string, err error) *APIError {
	msg := "request failed"
	switch {
	case errors.Is(err, context.Canceled):
		msg = "request cancelled"
	case errors.Is(err, context.DeadlineExceeded), os.IsTimeout(err):
		msg = "request timed out"
	default:
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			msg = fmt.Sprintf("cannot resolve %s", dnsErr.Name)
		}
	}
	return &APIError{
		Kind:    KindNetwork,
		Op:      op,
		Message: msg,
		Err:     err,
	}
}

// newDecodeError wraps a body that could not be parsed
func newDecodeError(op string, status int, err error) *APIError {
	return &APIError{
		Kind:       KindDecode,
		Op:         op,
		Message:    "malformed response body",
		StatusCode: status,
		Err:        err,
	}
}

// KindOf returns the kind of err, or KindGeneric when err is not an *APIError
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindGeneric
}

func isKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsInvalidCredentials checks if a login was rejected
func IsInvalidCredentials(err error) bool {
	return isKind(err, KindInvalidCredentials)
}

// IsUnauthorized checks if the bearer token was rejected
func IsUnauthorized(err error) bool {
	return isKind(err, KindUnauthorized)
}

// IsInvalidPublicKey checks if the server rejected a supplied public key
func IsInvalidPublicKey(err error) bool {
	return isKind(err, KindInvalidPublicKey)
}

// IsNotFound checks if the addressed client does not exist
func IsNotFound(err error) bool {
	return isKind(err, KindNotFound)
}

// IsNetworkError checks if the request failed before a response arrived
func IsNetworkError(err error) bool {
	return isKind(err, KindNetwork)
}

// ShortMessage returns a concise, user-facing message for err
func ShortMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch apiErr.Kind {
	case KindInvalidCredentials:
		return "Invalid username or password"
	case KindUnauthorized:
		return "Session expired, please sign in again"
	case KindInvalidPublicKey:
		return "The server rejected the public key"
	case KindNotFound:
		return "Client not found"
	case KindNetwork:
		return "Cannot reach the API server (" + apiErr.Message + ")"
	case KindDecode:
		return "Unexpected response from the API server"
	default:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.StatusCode != 0 {
			return fmt.Sprintf("API error (HTTP %d)", apiErr.StatusCode)
		}
		return "API error"
	}
}

// TroubleshootingHint returns multi-line advice for err
func TroubleshootingHint(err error) string {
	switch KindOf(err) {
	case KindInvalidCredentials:
		return strings.Join([]string{
			"The API server rejected the username or password.",
			"Troubleshooting:",
			"  • Check the username (default: admin)",
			"  • Passwords are case-sensitive",
		}, "\n")
	case KindUnauthorized:
		return strings.Join([]string{
			"The stored session is no longer valid.",
			"Troubleshooting:",
			"  • Run 'wgadmin login' to sign in again",
			"  • Tokens expire; check 'wgadmin status' for the expiry time",
		}, "\n")
	case KindInvalidPublicKey:
		return strings.Join([]string{
			"The public key was not accepted.",
			"Troubleshooting:",
			"  • Use the base64 public key printed by 'wg pubkey'",
			"  • Do not paste the private key",
		}, "\n")
	case KindNotFound:
		return "The client may already have been revoked. Run 'wgadmin clients list' to refresh."
	case KindNetwork:
		return strings.Join([]string{
			"The API server did not respond.",
			"Troubleshooting:",
			"  • Check --api-url or 'wgadmin config show'",
			"  • Run 'wgadmin health' to test connectivity",
			"  • Try 'wgadmin discover' on the server's LAN",
		}, "\n")
	case KindDecode:
		return "The server answered with an unexpected body. Check that --api-url points at the admin API."
	default:
		return "The API server returned an error. Check the server logs for details."
	}
}
