// Package summary derives read-only reporting figures from a group's
// transaction history. Nothing here mutates state; the ledger's running
// balance stays the single source of truth and these figures are recomputed
// per request.
package summary

import (
	"math"
	"sort"

	"github.com/poolup/poolup/internal/models"
)

// MemberTotal aggregates one member's approved activity in a group.
type MemberTotal struct {
	UserID      string  `json:"user_id"`
	Contributed float64 `json:"contributed"`
	Withdrawn   float64 `json:"withdrawn"`
}

// GroupSummary is the reporting view of a group.
type GroupSummary struct {
	GroupID            string        `json:"group_id"`
	TargetAmount       float64       `json:"target_amount"`
	CurrentAmount      float64       `json:"current_amount"`
	Progress           float64       `json:"progress"`
	PendingWithdrawals int           `json:"pending_withdrawals"`
	MemberTotals       []MemberTotal `json:"member_totals"`
}

// Progress returns how far a balance is toward a target, as a percentage
// rounded to two decimals. A zero target reports zero rather than dividing.
func Progress(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Round(current/target*10000) / 100
}

// Build computes a group's summary from its transaction history.
// Only approved transactions count toward member totals, mirroring the
// ledger's balance invariant; pending withdrawals are counted separately.
func Build(group *models.Group, txs []*models.Transaction) GroupSummary {
	totals := make(map[string]*MemberTotal)
	pending := 0

	for _, t := range txs {
		switch {
		case t.Type == models.TypeWithdrawal && t.Status == models.StatusPending:
			pending++
			continue
		case t.Status != models.StatusApproved:
			continue
		}

		mt, ok := totals[t.UserID]
		if !ok {
			mt = &MemberTotal{UserID: t.UserID}
			totals[t.UserID] = mt
		}
		if t.Type == models.TypeDeposit {
			mt.Contributed += t.Amount
		} else {
			mt.Withdrawn += t.Amount
		}
	}

	memberTotals := make([]MemberTotal, 0, len(totals))
	for _, mt := range totals {
		memberTotals = append(memberTotals, *mt)
	}
	// Deterministic order for API responses and tests.
	sort.Slice(memberTotals, func(i, j int) bool {
		return memberTotals[i].UserID < memberTotals[j].UserID
	})

	return GroupSummary{
		GroupID:            group.ID,
		TargetAmount:       group.TargetAmount,
		CurrentAmount:      group.CurrentAmount,
		Progress:           Progress(group.CurrentAmount, group.TargetAmount),
		PendingWithdrawals: pending,
		MemberTotals:       memberTotals,
	}
}
