package service

import (
	"context"
	"errors"

	"github.com/dukerupert/vanir/internal/auth"
	"github.com/dukerupert/vanir/internal/domain"
	"github.com/dukerupert/vanir/internal/postgres"
)

// UserStore is the account table collaborator.
type UserStore interface {
	CreateUser(ctx context.Context, email, username, passwordHash string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
}

// UserService handles account registration and credential verification.
// Session issuance is the IdentityResolver's job; login handlers compose
// the two.
type UserService struct {
	users UserStore
}

// NewUserService creates a new UserService instance.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, domain.Invalid("user.register", "password must be at least 8 characters")
		}
		return nil, domain.Internal(err, "user.register", "failed to hash password")
	}

	user, err := s.users.CreateUser(ctx, email, username, hash)
	if err != nil {
		if errors.Is(err, postgres.ErrDuplicate) {
			return nil, domain.Conflict("user.register", "an account with this email already exists")
		}
		return nil, domain.Internal(err, "user.register", "failed to create user")
	}

	return user, nil
}

// Authenticate verifies email and password, returning the account when the
// credentials match. A wrong password and an unknown email produce the same
// error so login responses cannot be used to probe for accounts.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, domain.Internal(err, "user.authenticate", "failed to look up user")
	}
	if user == nil {
		return nil, domain.Unauthorized("user.authenticate", "invalid email or password")
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.Unauthorized("user.authenticate", "invalid email or password")
		}
		return nil, domain.Internal(err, "user.authenticate", "failed to verify password")
	}

	return user, nil
}
