package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/vanir/internal/domain"
)

// SessionTTL is how long a newly created session stays valid.
const SessionTTL = 30 * 24 * time.Hour

// SessionStore is the session table collaborator.
type SessionStore interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSession(ctx context.Context, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, token string) (bool, error)
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}

// UserLookup resolves user records for identity enrichment.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
}

// IdentityResolver turns a session token into a trustworthy identity.
// It is the only component allowed to decide who a request belongs to;
// handlers never read user ids off the wire. A raw numeric user cookie is
// not a credential and never reaches this component.
type IdentityResolver struct {
	sessions SessionStore
	users    UserLookup
	now      func() time.Time
}

// NewIdentityResolver creates a resolver over the given collaborators.
func NewIdentityResolver(sessions SessionStore, users UserLookup) *IdentityResolver {
	return &IdentityResolver{
		sessions: sessions,
		users:    users,
		now:      time.Now,
	}
}

// Resolve maps a session token to an identity.
//
// A missing, unknown, or expired token is a normal Anonymous outcome with a
// nil error. A store failure returns Anonymous together with an EINTERNAL
// error so callers cannot mistake a down database for a logged-out user.
// Resolution has no side effects; it never creates or refreshes sessions.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Anonymous, nil
	}

	session, err := r.sessions.GetSession(ctx, token)
	if err != nil {
		return domain.Anonymous, domain.Internal(err, "identity.resolve", "failed to look up session")
	}
	if session == nil || session.Expired(r.now()) {
		return domain.Anonymous, nil
	}

	user, err := r.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		return domain.Anonymous, domain.Internal(err, "identity.resolve", "failed to look up user")
	}
	if user == nil {
		// Session points at a deleted account; treat like an expired session.
		return domain.Anonymous, nil
	}

	return domain.Identity{
		UserID:        user.ID,
		Username:      user.Username,
		Authenticated: true,
	}, nil
}

// CreateSession issues a new session for the user and returns its token.
// Other active sessions for the same user are not touched.
func (r *IdentityResolver) CreateSession(ctx context.Context, userID int64) (string, error) {
	token, err := generateSessionToken()
	if err != nil {
		return "", domain.Internal(err, "identity.create_session", "failed to generate session token")
	}

	now := r.now()
	session := domain.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}
	if err := r.sessions.CreateSession(ctx, session); err != nil {
		return "", domain.Internal(err, "identity.create_session", "failed to create session")
	}

	return token, nil
}

// DeleteSession removes a session; idempotent. Reports whether a row was
// actually removed.
func (r *IdentityResolver) DeleteSession(ctx context.Context, token string) (bool, error) {
	deleted, err := r.sessions.DeleteSession(ctx, token)
	if err != nil {
		return false, domain.Internal(err, "identity.delete_session", "failed to delete session")
	}
	return deleted, nil
}

// SweepExpiredSessions deletes expired sessions on a ticker until the
// context is cancelled. A session expiring mid-request resolves as if
// already deleted, so no coordination with lookups is needed.
func (r *IdentityResolver) SweepExpiredSessions(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.sessions.DeleteExpiredSessions(ctx)
			if err != nil {
				logger.Error("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("session sweep", "deleted", n)
			}
		}
	}
}

// generateSessionToken generates a cryptographically secure session token.
// Uses 32 bytes of random data encoded as base64 URL-safe string.
func generateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
