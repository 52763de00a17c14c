package server

import (
	"net/http"

	"github.com/poolup/poolup/internal/middleware"
	"github.com/poolup/poolup/internal/service"
)

// handleGetMe returns the authenticated user's profile.
// GET /api/users/me
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, viewUser(user))
}

// handleUpdateMe updates the authenticated user's profile.
// PUT /api/users/me
func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.Update(r.Context(), middleware.GetUserID(r.Context()), service.UserPatch{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, viewUser(user))
}
