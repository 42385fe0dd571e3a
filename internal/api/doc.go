// Package api provides the HTTP client for the WireGuard peer-management API.
//
// The remote service owns everything hard: key generation, IP allocation, the
// peer registry and the live kernel configuration. This package only translates
// typed method calls into HTTP requests and maps the responses back into the
// domain types defined in types.go.
//
// # Endpoints
//
//	POST   /auth/login                 {username,password}   -> LoginResponse
//	GET    /api/clients                bearer                -> []Client
//	POST   /api/clients                bearer {name}         -> CreateClientResponse (with config)
//	POST   /api/clients/by-public-key  bearer {name,publicKey} -> CreateClientResponse (no config)
//	DELETE /api/clients/{id}           bearer                -> empty
//	POST   /api/sync                   bearer                -> SyncResponse
//	GET    /health                                           -> HealthResponse
//
// # Usage Example
//
//	client := api.NewClient("http://localhost:9191")
//
//	login, err := client.Login(ctx, "admin", password)
//	if err != nil {
//	    if api.IsInvalidCredentials(err) {
//	        // wrong username or password
//	    }
//	    return err
//	}
//
//	clients, err := client.ListClients(ctx, login.Token)
//
// # Error Handling
//
// Every failure is returned as *APIError. The Kind field carries the semantic
// identifier (invalid_credentials, unauthorized, invalid_public_key, not_found)
// or one of the unlabeled generic kinds. Use the Is* predicates rather than
// comparing messages.
//
// # Retries
//
// Calls are fire-once. There is no retry loop; the caller decides whether to
// try again. Cancellation and deadlines come from the context and from the
// client's overall timeout.
package api
