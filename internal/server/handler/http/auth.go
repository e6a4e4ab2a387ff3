// Package http provides the HTTP handlers and routers of the main application
// API and of the extension-side list service.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/atinyakov/LangHelper/internal/middleware"
	"github.com/atinyakov/LangHelper/internal/models"
	"go.uber.org/zap"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a user; created is false when the username is taken.
	Register(ctx context.Context, username, password string) (*models.User, bool, error)
	// Authenticate verifies the credentials.
	Authenticate(ctx context.Context, username, password string) (*models.User, bool, error)
	// StartSession issues a bearer token for the user.
	StartSession(ctx context.Context, userID int64) (models.Session, error)
	// Logout invalidates the token.
	Logout(ctx context.Context, token string) error
	// GetUser loads the user's profile.
	GetUser(ctx context.Context, id int64) (*models.User, bool, error)
	// UpdateSettings applies the non-empty profile fields.
	UpdateSettings(ctx context.Context, id int64, s models.Settings) (*models.User, bool, error)
}

// Importer pulls the user's extension word list into the vocabulary.
type Importer interface {
	Import(ctx context.Context, userID int64) int
}

// AuthHandler handles HTTP requests for registration, login, logout and settings.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Importer runs the silent extension import after register and login.
	Importer Importer
	Logger   *zap.Logger
}

// CredentialsRequest represents the JSON payload for register and login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
	Imported  int          `json:"imported"`
}

// Register handles user registration requests.
// It expects a JSON body with "username" and "password". A taken username is
// answered with 409 and nothing is created. On success the user is logged in
// and the extension word list is imported.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, created, err := h.AuthService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logError("register failed", err)
		writeError(w, err)
		return
	}
	if !created {
		http.Error(w, "user already exists", http.StatusConflict)
		return
	}

	h.startSession(w, r, user, http.StatusCreated)
}

// Login handles password login requests.
// Unknown usernames and wrong passwords both yield 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, ok, err := h.AuthService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logError("login failed", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	h.startSession(w, r, user, http.StatusOK)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	session, err := h.AuthService.StartSession(r.Context(), user.ID)
	if err != nil {
		h.logError("start session failed", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	imported := 0
	if h.Importer != nil {
		imported = h.Importer.Import(r.Context(), user.ID)
	}

	writeJSON(w, status, SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
		Imported:  imported,
	})
}

// Logout ends the session the request was authenticated with.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	if err := h.AuthService.Logout(r.Context(), token); err != nil {
		h.logError("logout failed", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetSettings returns the profile of the authenticated user.
func (h *AuthHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	user, found, err := h.AuthService.GetUser(r.Context(), middleware.GetUserIDFromContext(r.Context()))
	if err != nil {
		h.logError("get settings failed", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateSettings changes native language, target language or proficiency.
// Fields left empty keep their current value.
func (h *AuthHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req models.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, found, err := h.AuthService.UpdateSettings(r.Context(), middleware.GetUserIDFromContext(r.Context()), req)
	if err != nil {
		h.logError("update settings failed", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) logError(msg string, err error) {
	if h.Logger != nil && statusFor(err) == http.StatusInternalServerError {
		h.Logger.Error(msg, zap.Error(err))
	}
}
