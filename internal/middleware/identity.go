package middleware

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/vanir/internal/domain"
	"github.com/dukerupert/vanir/internal/handler"
	"github.com/dukerupert/vanir/internal/service"
)

const (
	// SessionHeader carries the session token for API clients.
	SessionHeader = "X-Session"

	// SessionCookieName is the browser-facing session cookie.
	SessionCookieName = "session"
)

// WithIdentity resolves the request's session token into an identity and
// attaches it to the context. Every request gets an identity; unresolvable
// tokens mean Anonymous. The X-Session header wins over the cookie when
// both are present. A legacy raw user-id cookie is ignored entirely; only
// tokens issued at login count.
//
// A resolver infrastructure failure is reported as a 500 rather than
// degrading to Anonymous, so a database outage cannot quietly log
// everyone out.
func WithIdentity(resolver *service.IdentityResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(SessionHeader)
			if token == "" {
				if cookie, err := r.Cookie(SessionCookieName); err == nil {
					token = cookie.Value
				}
			}

			identity, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				logger.Error("identity resolution failed", "error", err)
				handler.RespondError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAuth rejects requests whose identity is not authenticated.
// Routes behind it can read the identity from context without checking
// Authenticated again.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := domain.IdentityFromContext(r.Context())
		if !identity.Authenticated {
			handler.RespondError(w, domain.Unauthorized("middleware.require_auth", "authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
