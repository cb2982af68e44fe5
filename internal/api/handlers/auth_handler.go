package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/isdelr/jobboard-be/internal/apperr"
	"github.com/isdelr/jobboard-be/internal/auth"
	"github.com/isdelr/jobboard-be/internal/services"
	"github.com/rs/zerolog/hlog"
)

// AuthHandler handles registration, login and the current-user endpoints.
type AuthHandler struct {
	service   services.UserServiceProvider
	tokens    *auth.Tokens
	transport auth.Transport
}

// NewAuthHandler creates a new AuthHandler. tokens and transport must be the
// ones the gate verifies with.
func NewAuthHandler(service services.UserServiceProvider, tokens *auth.Tokens, transport auth.Transport) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens, transport: transport}
}

// CredentialsPayload is the body of register and login requests.
type CredentialsPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registeredUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type loginUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type loginResponse struct {
	OK    bool      `json:"ok"`
	User  loginUser `json:"user"`
	Token string    `json:"token,omitempty"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.service.Register(r.Context(), payload.Email, payload.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Str("user_id", user.ID).Msg("User registered")
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"user": registeredUser{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt},
	})
}

// Login authenticates the credentials and hands a token to the client
// through the configured transport.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		respondError(w, r, apperr.ErrInvalidCredentials)
		return
	}

	user, err := h.service.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			hlog.FromRequest(r).Warn().Msg("Failed authentication attempt")
		}
		respondError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := loginResponse{OK: true, User: loginUser{ID: user.ID, Email: user.Email}}
	if h.transport.Deliver(w, token, h.tokens.TTL()) {
		resp.Token = token
	}
	respondJSON(w, http.StatusOK, resp)
}

// Logout clears any client-side token state. Issued tokens stay valid until
// they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.transport.Clear(w)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me returns the user behind the verified token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		respondError(w, r, apperr.ErrUnauthenticated)
		return
	}

	user, err := h.service.FindByID(r.Context(), identity.SubjectID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if user == nil {
		respondError(w, r, apperr.New(apperr.ErrNotFound, "User not found"))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"user": user.Sanitized(),
	})
}
