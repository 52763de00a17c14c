package server

import (
	"log/slog"
	"net/http"

	"github.com/poolup/poolup/internal/auth"
)

// handleRegister creates a new account and returns it with a session token.
// POST /api/auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		slog.Warn("Registration failed", "username", req.Username, "error", err)
		writeDomainError(w, err)
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username)
	writeSuccess(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  viewUser(user),
	})
}

// handleLogin authenticates by email and password.
// POST /api/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email)
		writeDomainError(w, auth.ErrInvalidCredentials)
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("User logged in", "user_id", user.ID)
	writeSuccess(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  viewUser(user),
	})
}

// handleLogout is a no-op server side; stateless JWTs are discarded by the
// client.
// POST /api/auth/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{
		"message": "successfully logged out",
	})
}
