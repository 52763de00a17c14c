package server

import (
	"net/http"

	"github.com/poolup/poolup/internal/middleware"
	"github.com/poolup/poolup/internal/models"
)

// handleCreateContribution records a deposit into a group.
// POST /api/transactions
func (s *Server) handleCreateContribution(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID     string  `json:"group_id"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GroupID == "" {
		writeError(w, http.StatusBadRequest, "group_id is required")
		return
	}

	t, err := s.transactions.Contribute(r.Context(), middleware.GetUserID(r.Context()), req.GroupID, req.Amount, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, viewTransaction(t))
}

// handleRequestWithdrawal records a pending withdrawal request.
// POST /api/withdrawals
func (s *Server) handleRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GroupID     string  `json:"group_id"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GroupID == "" {
		writeError(w, http.StatusBadRequest, "group_id is required")
		return
	}

	t, err := s.transactions.RequestWithdrawal(r.Context(), middleware.GetUserID(r.Context()), req.GroupID, req.Amount, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, viewTransaction(t))
}

// handleDecideWithdrawal approves or rejects a pending withdrawal. Admin of
// the withdrawal's group only.
// PUT /api/withdrawals/{id}
func (s *Server) handleDecideWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	t, err := s.transactions.Decide(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"), models.TransactionStatus(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, viewTransaction(t))
}

// handleListGroupTransactions lists a group's transactions, newest first.
// Members only.
// GET /api/groups/{id}/transactions
func (s *Server) handleListGroupTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.ListByGroup(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, viewTransactions(txs))
}

// handleGetTransaction returns one transaction if the caller is a member of
// its group; otherwise it behaves as not found.
// GET /api/transactions/{id}
func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.transactions.Get(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, viewTransaction(t))
}
