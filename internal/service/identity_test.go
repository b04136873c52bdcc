package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/vanir/internal/domain"
)

type mockSessionStore struct {
	createSessionFunc         func(ctx context.Context, session domain.Session) error
	getSessionFunc            func(ctx context.Context, token string) (*domain.Session, error)
	deleteSessionFunc         func(ctx context.Context, token string) (bool, error)
	deleteExpiredSessionsFunc func(ctx context.Context) (int64, error)
}

func (m *mockSessionStore) CreateSession(ctx context.Context, session domain.Session) error {
	if m.createSessionFunc != nil {
		return m.createSessionFunc(ctx, session)
	}
	return nil
}

func (m *mockSessionStore) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	if m.getSessionFunc != nil {
		return m.getSessionFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionStore) DeleteSession(ctx context.Context, token string) (bool, error) {
	if m.deleteSessionFunc != nil {
		return m.deleteSessionFunc(ctx, token)
	}
	return false, nil
}

func (m *mockSessionStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	if m.deleteExpiredSessionsFunc != nil {
		return m.deleteExpiredSessionsFunc(ctx)
	}
	return 0, nil
}

type mockUserLookup struct {
	getUserByIDFunc func(ctx context.Context, id int64) (*domain.User, error)
}

func (m *mockUserLookup) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getUserByIDFunc != nil {
		return m.getUserByIDFunc(ctx, id)
	}
	return nil, nil
}

func fixedTime() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestIdentityResolver_Resolve(t *testing.T) {
	validSession := &domain.Session{
		Token:     "tok",
		UserID:    7,
		CreatedAt: fixedTime().Add(-time.Hour),
		ExpiresAt: fixedTime().Add(time.Hour),
	}
	user := &domain.User{ID: 7, Username: "alice", Email: "alice@example.com"}

	tests := []struct {
		name     string
		token    string
		sessions *mockSessionStore
		users    *mockUserLookup
		want     domain.Identity
		wantCode string
	}{
		{
			name:     "empty token is anonymous",
			token:    "",
			sessions: &mockSessionStore{},
			users:    &mockUserLookup{},
			want:     domain.Anonymous,
		},
		{
			name:  "unknown token is anonymous",
			token: "nope",
			sessions: &mockSessionStore{
				getSessionFunc: func(ctx context.Context, token string) (*domain.Session, error) {
					return nil, nil
				},
			},
			users: &mockUserLookup{},
			want:  domain.Anonymous,
		},
		{
			name:  "expired session is anonymous",
			token: "tok",
			sessions: &mockSessionStore{
				getSessionFunc: func(ctx context.Context, token string) (*domain.Session, error) {
					return &domain.Session{
						Token:     "tok",
						UserID:    7,
						ExpiresAt: fixedTime().Add(-time.Minute),
					}, nil
				},
			},
			users: &mockUserLookup{},
			want:  domain.Anonymous,
		},
		{
			name:  "valid session resolves identity",
			token: "tok",
			sessions: &mockSessionStore{
				getSessionFunc: func(ctx context.Context, token string) (*domain.Session, error) {
					return validSession, nil
				},
			},
			users: &mockUserLookup{
				getUserByIDFunc: func(ctx context.Context, id int64) (*domain.User, error) {
					return user, nil
				},
			},
			want: domain.Identity{UserID: 7, Username: "alice", Authenticated: true},
		},
		{
			name:  "session for deleted account is anonymous",
			token: "tok",
			sessions: &mockSessionStore{
				getSessionFunc: func(ctx context.Context, token string) (*domain.Session, error) {
					return validSession, nil
				},
			},
			users: &mockUserLookup{
				getUserByIDFunc: func(ctx context.Context, id int64) (*domain.User, error) {
					return nil, nil
				},
			},
			want: domain.Anonymous,
		},
		{
			name:  "store failure is an internal error, not a logout",
			token: "tok",
			sessions: &mockSessionStore{
				getSessionFunc: func(ctx context.Context, token string) (*domain.Session, error) {
					return nil, errors.New("connection refused")
				},
			},
			users:    &mockUserLookup{},
			want:     domain.Anonymous,
			wantCode: domain.EINTERNAL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewIdentityResolver(tt.sessions, tt.users)
			r.now = fixedTime

			got, err := r.Resolve(context.Background(), tt.token)
			assert.Equal(t, tt.want, got)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, domain.ErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIdentityResolver_CreateSession(t *testing.T) {
	var created domain.Session
	sessions := &mockSessionStore{
		createSessionFunc: func(ctx context.Context, session domain.Session) error {
			created = session
			return nil
		},
	}

	r := NewIdentityResolver(sessions, &mockUserLookup{})
	r.now = fixedTime

	token, err := r.CreateSession(context.Background(), 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.Equal(t, token, created.Token)
	assert.Equal(t, int64(42), created.UserID)
	assert.Equal(t, fixedTime(), created.CreatedAt)
	assert.Equal(t, fixedTime().Add(SessionTTL), created.ExpiresAt)

	// Tokens must be unique per issuance.
	token2, err := r.CreateSession(context.Background(), 42)
	require.NoError(t, err)
	assert.NotEqual(t, token, token2)
}

func TestIdentityResolver_DeleteSession(t *testing.T) {
	sessions := &mockSessionStore{
		deleteSessionFunc: func(ctx context.Context, token string) (bool, error) {
			return token == "live", nil
		},
	}
	r := NewIdentityResolver(sessions, &mockUserLookup{})

	deleted, err := r.DeleteSession(context.Background(), "live")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = r.DeleteSession(context.Background(), "gone")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestGenerateSessionToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := generateSessionToken()
		require.NoError(t, err)
		assert.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}
