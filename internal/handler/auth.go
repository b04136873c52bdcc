package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/vanir/internal/domain"
	"github.com/dukerupert/vanir/internal/service"
)

var validate = validator.New()

const sessionCookieName = "session"

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	users    *service.UserService
	identity *service.IdentityResolver
	secure   bool
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler. secure controls the session
// cookie's Secure flag and should be true outside development.
func NewAuthHandler(users *service.UserService, identity *service.IdentityResolver, secure bool, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:    users,
		identity: identity,
		secure:   secure,
		logger:   logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=8"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondError(w, domain.Invalid("auth.register", "email, username, and a password of at least 8 characters are required"))
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, userResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Login handles POST /auth/login. The session token is returned in the
// body for API clients and set as a cookie for browsers.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		RespondError(w, domain.Invalid("auth.login", "email and password are required"))
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(w, err)
		return
	}

	token, err := h.identity.CreateSession(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to create session", "user_id", user.ID, "error", err)
		RespondError(w, err)
		return
	}

	h.setSessionCookie(w, token, service.SessionTTL)

	RespondJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User: userResponse{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
		},
	})
}

// Logout handles POST /auth/logout. Deleting an already-dead session is
// still a successful logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Session")
	if token == "" {
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			token = cookie.Value
		}
	}

	if token != "" {
		if _, err := h.identity.DeleteSession(r.Context(), token); err != nil {
			RespondError(w, err)
			return
		}
	}

	h.setSessionCookie(w, "", -time.Hour)
	RespondMessage(w, http.StatusOK, "logged out")
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
