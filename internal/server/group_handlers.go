package server

import (
	"net/http"

	"github.com/poolup/poolup/internal/middleware"
	"github.com/poolup/poolup/internal/models"
	"github.com/poolup/poolup/internal/summary"
)

// handleCreateGroup creates a savings group with the caller as admin.
// POST /api/groups
func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string  `json:"name"`
		Description  string  `json:"description"`
		TargetAmount float64 `json:"target_amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := s.groups.Create(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Description, req.TargetAmount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, viewGroup(group))
}

// handleListGroups returns the caller's groups.
// GET /api/groups
func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, viewGroups(groups))
}

// handleGetGroup returns one group. Members only.
// GET /api/groups/{id}
func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.groups.Get(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, viewGroup(group))
}

// handleUpdateGroup patches name, description and/or target. Admin only.
// PUT /api/groups/{id}
func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         *string  `json:"name"`
		Description  *string  `json:"description"`
		TargetAmount *float64 `json:"target_amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := s.groups.Update(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), models.GroupPatch{
		Name:         req.Name,
		Description:  req.Description,
		TargetAmount: req.TargetAmount,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, viewGroup(group))
}

// handleDeleteGroup hard-deletes a group with its memberships and
// transactions. Admin only.
// DELETE /api/groups/{id}
func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.Delete(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"message": "group deleted successfully",
	})
}

// handleJoinGroup adds the caller as a non-admin member.
// POST /api/groups/{id}/join
func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	m, err := s.groups.Join(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"message":    "successfully joined the group",
		"membership": viewMembership(m),
	})
}

// handleLeaveGroup removes the caller's membership.
// POST /api/groups/{id}/leave
func (s *Server) handleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.groups.Leave(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"message": "successfully left the group",
	})
}

// handleListMembers lists a group's memberships. Members only.
// GET /api/groups/{id}/members
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.groups.Members(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	views := make([]membershipView, len(members))
	for i, m := range members {
		views[i] = viewMembership(m)
	}
	writeSuccess(w, http.StatusOK, views)
}

// handlePromoteMember grants admin rights to another member. Admin only.
// POST /api/groups/{id}/promote
func (s *Server) handlePromoteMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := s.groups.Promote(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), req.UserID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"message": "member promoted to admin",
	})
}

// handleGroupSummary reports progress and per-member totals. Members only.
// GET /api/groups/{id}/summary
func (s *Server) handleGroupSummary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groupID := r.PathValue("id")

	group, err := s.groups.Get(r.Context(), userID, groupID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	txs, err := s.transactions.ListByGroup(r.Context(), userID, groupID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, summary.Build(group, txs))
}
