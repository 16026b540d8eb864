package auth

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/placeradar/backend/internal/domain/providers"
)

type contextKey struct{}

var tokenKey = contextKey{}

// tokenHolder carries the request's bearer token. HandleExpiry flips revoked
// so later upstream calls in the same request go out unauthenticated instead
// of replaying a token already known to be rejected.
type tokenHolder struct {
	mu      sync.Mutex
	token   string
	revoked bool
}

// WithToken stores a bearer token on the context for the remainder of the
// request. Middleware calls this after extracting the Authorization header.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, &tokenHolder{token: token})
}

// ContextGateway implements AuthGateway backed by the request context
type ContextGateway struct{}

// NewContextGateway creates a context-backed auth gateway
func NewContextGateway() providers.AuthGateway {
	return &ContextGateway{}
}

// Token returns the bearer token for the current request, if any
func (g *ContextGateway) Token(ctx context.Context) (string, bool) {
	holder, ok := ctx.Value(tokenKey).(*tokenHolder)
	if !ok {
		return "", false
	}

	holder.mu.Lock()
	defer holder.mu.Unlock()
	if holder.revoked || holder.token == "" {
		return "", false
	}
	return holder.token, true
}

// HandleExpiry drops the request's token after an upstream 401
func (g *ContextGateway) HandleExpiry(ctx context.Context) {
	holder, ok := ctx.Value(tokenKey).(*tokenHolder)
	if !ok {
		return
	}

	holder.mu.Lock()
	alreadyRevoked := holder.revoked
	holder.revoked = true
	holder.mu.Unlock()

	if !alreadyRevoked {
		log.Debug().Msg("bearer token rejected upstream, dropped for remainder of request")
	}
}
