package providers

import "context"

// AuthGateway supplies the caller's bearer token for upstream requests and
// absorbs expiry signals. It replaces the mobile client's global token store:
// anything needing auth gets this capability injected instead of reaching for
// a mutable global.
type AuthGateway interface {
	// Token returns the bearer token for the current request, if any.
	Token(ctx context.Context) (string, bool)

	// HandleExpiry is invoked when the upstream rejects the token (401).
	// The token is dropped for the remainder of the request; prompting the
	// user to sign in again is the auth collaborator's job, not this core's.
	HandleExpiry(ctx context.Context)
}
