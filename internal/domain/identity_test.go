package domain

import (
	"context"
	"testing"
	"time"
)

func TestSessionExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"future expiry is live", now.Add(time.Minute), false},
		{"past expiry is expired", now.Add(-time.Minute), true},
		{"exact boundary is expired", now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Session{ExpiresAt: tt.expiresAt}
			if got := s.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdentityContext(t *testing.T) {
	if got := IdentityFromContext(context.Background()); got != Anonymous {
		t.Errorf("expected Anonymous from empty context, got %+v", got)
	}

	id := Identity{UserID: 7, Username: "alice", Authenticated: true}
	ctx := WithIdentity(context.Background(), id)
	if got := IdentityFromContext(ctx); got != id {
		t.Errorf("expected %+v, got %+v", id, got)
	}
}
