// ABOUTME: Authentication handlers: login, sign-up, logout and current user
// ABOUTME: The session travels in an HttpOnly jwt-token cookie scoped to /api

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/gursheyss/cs157a/internal/mockapi/middleware"
	"github.com/gursheyss/cs157a/internal/mockapi/models"
	"github.com/gursheyss/cs157a/internal/mockapi/services"
)

const cookiePath = "/api"

// Login checks credentials and sets the session cookie
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.UsernameOrEmail) == "" || req.Password == "" {
		h.writeError(w, "Username or email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.store.FindUser(strings.TrimSpace(req.UsernameOrEmail))
	if err != nil || !h.hasher.Check(user.PasswordHash, req.Password) {
		slog.Warn("Authentication failed", "identifier", req.UsernameOrEmail)
		h.writeError(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	token, _, err := h.tokens.Issue(user)
	if err != nil {
		slog.Error("Failed to issue token", "error", err)
		h.writeError(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     cookiePath,
		MaxAge:   cookieMaxAge(h.tokens.TTL()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("User logged in", "username", user.Username)
	h.writeJSON(w, http.StatusOK, models.JwtResponse{
		UserInfoResponse: userInfo(user),
		Token:            token,
		Type:             "Bearer",
	})
}

// Register creates an account. It does not sign the user in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if msg := validateSignup(req); msg != "" {
		h.writeError(w, msg, http.StatusBadRequest)
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		h.writeError(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	_, err = h.store.CreateUser(models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Roles:        []string{models.RoleUser},
	})
	switch {
	case errors.Is(err, services.ErrUsernameTaken):
		h.writeError(w, "Error: Username is already taken!", http.StatusBadRequest)
		return
	case errors.Is(err, services.ErrEmailTaken):
		h.writeError(w, "Error: Email is already in use!", http.StatusBadRequest)
		return
	case err != nil:
		h.writeStoreError(w, err)
		return
	}

	slog.Info("User registered", "username", req.Username)
	h.writeMessage(w, "User registered successfully!")
}

func validateSignup(req models.SignupRequest) string {
	if n := utf8.RuneCountInString(req.Username); n < 3 || n > 20 {
		return "Username must be between 3 and 20 characters"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "Email must be a valid address"
	}
	if len(req.Password) < 6 {
		return "Password must be at least 6 characters"
	}
	return ""
}

// Logout revokes the caller's token, if any, and clears the cookie
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := middleware.GetUserClaims(r); claims != nil && h.sessions != nil {
		h.sessions.Revoke(claims.TokenID, claims.ExpiresAt)
		slog.Info("User logged out", "username", claims.Username)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     cookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	h.writeMessage(w, "Logout successful!")
}

// Me returns the authenticated user
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.caller(w, r)
	if !ok {
		return
	}

	user, err := h.store.GetUser(claims.UserID)
	if err != nil {
		h.writeError(w, "User not authenticated", http.StatusUnauthorized)
		return
	}
	h.writeJSON(w, http.StatusOK, userInfo(user))
}
