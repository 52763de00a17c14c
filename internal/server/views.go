package server

import (
	"github.com/poolup/poolup/internal/models"
	"github.com/poolup/poolup/internal/summary"
)

// JSON views of the domain entities. Kept separate from the models so the
// wire shape (field names, derived fields, omitted credentials) can change
// without touching the core.

type userView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
}

func viewUser(u *models.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

type groupView struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	CreatedBy     string  `json:"created_by"`
	CreatedAt     int64   `json:"created_at"`
	Progress      float64 `json:"progress"`
}

func viewGroup(g *models.Group) groupView {
	return groupView{
		ID:            g.ID,
		Name:          g.Name,
		Description:   g.Description,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		CreatedBy:     g.CreatedBy,
		CreatedAt:     g.CreatedAt,
		Progress:      summary.Progress(g.CurrentAmount, g.TargetAmount),
	}
}

func viewGroups(groups []*models.Group) []groupView {
	views := make([]groupView, len(groups))
	for i, g := range groups {
		views[i] = viewGroup(g)
	}
	return views
}

type membershipView struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	GroupID  string `json:"group_id"`
	IsAdmin  bool   `json:"is_admin"`
	JoinedAt int64  `json:"joined_at"`
}

func viewMembership(m *models.Membership) membershipView {
	return membershipView{
		ID:       m.ID,
		UserID:   m.UserID,
		GroupID:  m.GroupID,
		IsAdmin:  m.IsAdmin,
		JoinedAt: m.JoinedAt,
	}
}

type transactionView struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	GroupID     string  `json:"group_id"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	CreatedAt   int64   `json:"created_at"`
}

func viewTransaction(t *models.Transaction) transactionView {
	return transactionView{
		ID:          t.ID,
		UserID:      t.UserID,
		GroupID:     t.GroupID,
		Amount:      t.Amount,
		Type:        string(t.Type),
		Status:      string(t.Status),
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func viewTransactions(txs []*models.Transaction) []transactionView {
	views := make([]transactionView, len(txs))
	for i, t := range txs {
		views[i] = viewTransaction(t)
	}
	return views
}
