package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/vanir/internal/domain"
	"github.com/dukerupert/vanir/internal/service"
)

type stubSessionStore struct {
	getFunc func(ctx context.Context, token string) (*domain.Session, error)
}

func (s *stubSessionStore) CreateSession(ctx context.Context, session domain.Session) error {
	return nil
}

func (s *stubSessionStore) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	if s.getFunc != nil {
		return s.getFunc(ctx, token)
	}
	return nil, nil
}

func (s *stubSessionStore) DeleteSession(ctx context.Context, token string) (bool, error) {
	return false, nil
}

func (s *stubSessionStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

type stubUserLookup struct {
	user *domain.User
}

func (s *stubUserLookup) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.user, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func liveSessionStore(token string, userID int64) *stubSessionStore {
	return &stubSessionStore{
		getFunc: func(ctx context.Context, got string) (*domain.Session, error) {
			if got == token {
				return &domain.Session{
					Token:     token,
					UserID:    userID,
					ExpiresAt: time.Now().Add(time.Hour),
				}, nil
			}
			return nil, nil
		},
	}
}

func TestWithIdentity(t *testing.T) {
	user := &domain.User{ID: 7, Username: "alice"}

	tests := []struct {
		name      string
		setup     func(r *http.Request)
		sessions  *stubSessionStore
		wantAuth  bool
		wantUser  int64
		wantCode  int
	}{
		{
			name:     "no token is anonymous",
			setup:    func(r *http.Request) {},
			sessions: &stubSessionStore{},
			wantAuth: false,
			wantCode: http.StatusOK,
		},
		{
			name: "header token resolves",
			setup: func(r *http.Request) {
				r.Header.Set(SessionHeader, "tok")
			},
			sessions: liveSessionStore("tok", 7),
			wantAuth: true,
			wantUser: 7,
			wantCode: http.StatusOK,
		},
		{
			name: "cookie token resolves",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})
			},
			sessions: liveSessionStore("tok", 7),
			wantAuth: true,
			wantUser: 7,
			wantCode: http.StatusOK,
		},
		{
			name: "header wins over cookie",
			setup: func(r *http.Request) {
				r.Header.Set(SessionHeader, "tok")
				r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
			},
			sessions: liveSessionStore("tok", 7),
			wantAuth: true,
			wantUser: 7,
			wantCode: http.StatusOK,
		},
		{
			name: "legacy user cookie grants nothing",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "user", Value: "7"})
			},
			sessions: &stubSessionStore{},
			wantAuth: false,
			wantCode: http.StatusOK,
		},
		{
			name: "unknown token is anonymous",
			setup: func(r *http.Request) {
				r.Header.Set(SessionHeader, "forged")
			},
			sessions: liveSessionStore("tok", 7),
			wantAuth: false,
			wantCode: http.StatusOK,
		},
		{
			name: "store outage is a 500, not a logout",
			setup: func(r *http.Request) {
				r.Header.Set(SessionHeader, "tok")
			},
			sessions: &stubSessionStore{
				getFunc: func(ctx context.Context, token string) (*domain.Session, error) {
					return nil, errors.New("connection refused")
				},
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := service.NewIdentityResolver(tt.sessions, &stubUserLookup{user: user})

			var got domain.Identity
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = domain.IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			tt.setup(req)
			w := httptest.NewRecorder()

			WithIdentity(resolver, testLogger())(next).ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, w.Code)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			if got.Authenticated != tt.wantAuth {
				t.Errorf("expected authenticated %v, got %v", tt.wantAuth, got.Authenticated)
			}
			if tt.wantAuth && got.UserID != tt.wantUser {
				t.Errorf("expected user %d, got %d", tt.wantUser, got.UserID)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("anonymous is rejected with a JSON 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		w := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"success":false`) {
			t.Errorf("expected error envelope, got %s", w.Body.String())
		}
	})

	t.Run("authenticated passes through", func(t *testing.T) {
		identity := domain.Identity{UserID: 7, Authenticated: true}
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req = req.WithContext(domain.WithIdentity(req.Context(), identity))
		w := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", w.Code)
		}
	})
}
