// Package server exposes the savings-pool services over a JSON HTTP API.
//
// It is a thin translation layer: handlers decode requests, call a service
// with the authenticated caller's user ID, and map domain error kinds to
// status codes. No business rules live here.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/poolup/poolup/internal/auth"
	"github.com/poolup/poolup/internal/middleware"
	"github.com/poolup/poolup/internal/service"
)

// Server holds the services and auth machinery behind the HTTP API.
type Server struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         *service.UserService
	groups        *service.GroupService
	transactions  *service.TransactionService
}

// New creates a Server over the given services.
func New(
	authenticator auth.Authenticator,
	jwtManager *auth.JWTManager,
	users *service.UserService,
	groups *service.GroupService,
	transactions *service.TransactionService,
) *Server {
	return &Server{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		groups:        groups,
		transactions:  transactions,
	}
}

// Handler builds the full route table wrapped with CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// public wraps a handler with metrics only; protected additionally
	// requires a valid Bearer token. Both run inside the mux so the route
	// pattern is available to the metrics middleware.
	public := func(h http.HandlerFunc) http.Handler {
		return middleware.Metrics(h)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.Metrics(middleware.RequireAuth(s.jwtManager, h))
	}

	mux.Handle("POST /api/auth/register", public(s.handleRegister))
	mux.Handle("POST /api/auth/login", public(s.handleLogin))
	mux.Handle("POST /api/auth/logout", protected(s.handleLogout))

	mux.Handle("GET /api/users/me", protected(s.handleGetMe))
	mux.Handle("PUT /api/users/me", protected(s.handleUpdateMe))

	mux.Handle("GET /api/groups", protected(s.handleListGroups))
	mux.Handle("POST /api/groups", protected(s.handleCreateGroup))
	mux.Handle("GET /api/groups/{id}", protected(s.handleGetGroup))
	mux.Handle("PUT /api/groups/{id}", protected(s.handleUpdateGroup))
	mux.Handle("DELETE /api/groups/{id}", protected(s.handleDeleteGroup))
	mux.Handle("POST /api/groups/{id}/join", protected(s.handleJoinGroup))
	mux.Handle("POST /api/groups/{id}/leave", protected(s.handleLeaveGroup))
	mux.Handle("POST /api/groups/{id}/promote", protected(s.handlePromoteMember))
	mux.Handle("GET /api/groups/{id}/members", protected(s.handleListMembers))
	mux.Handle("GET /api/groups/{id}/summary", protected(s.handleGroupSummary))
	mux.Handle("GET /api/groups/{id}/transactions", protected(s.handleListGroupTransactions))

	mux.Handle("POST /api/transactions", protected(s.handleCreateContribution))
	mux.Handle("GET /api/transactions/{id}", protected(s.handleGetTransaction))
	mux.Handle("POST /api/withdrawals", protected(s.handleRequestWithdrawal))
	mux.Handle("PUT /api/withdrawals/{id}", protected(s.handleDecideWithdrawal))

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /api/health", public(s.handleHealth))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	return middleware.Logging(c.Handler(mux))
}

// handleHealth reports liveness.
// GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "healthy"})
}
