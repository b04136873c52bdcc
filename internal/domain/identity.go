package domain

import (
	"context"
	"time"
)

// Session is a server-issued login token bound to one user.
// An expired session resolves to no user.
type Session struct {
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry at the given instant.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Identity is the resolved outcome of authenticating one request.
// It is produced fresh per request and never persisted.
type Identity struct {
	UserID   int64
	Username string

	// Authenticated distinguishes a resolved user from the anonymous zero value.
	Authenticated bool
}

// Anonymous is the identity of a request that carried no valid session.
var Anonymous = Identity{}

type identityContextKey struct{}

// WithIdentity returns a context carrying the resolved identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext retrieves the identity attached by the identity
// middleware. Returns Anonymous when resolution never ran or found nothing.
func IdentityFromContext(ctx context.Context) Identity {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	if !ok {
		return Anonymous
	}
	return id
}
