package ports

import "context"

// Supplies the bearer token for upstream requests.
type AuthProvider interface {
	// Return the token to send with the next request.
	CurrentToken(ctx context.Context) (string, error)
	// Obtain a fresh token. Called at most once per upstream call after a 401.
	ForceReLogin(ctx context.Context) error
}
