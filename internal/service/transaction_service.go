package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poolup/poolup/internal/models"
	"github.com/poolup/poolup/internal/storage"
)

// TransactionService is the ledger: it records contributions and
// withdrawals and is the only component that mutates group balances
// (through the store's atomic operations).
type TransactionService struct {
	store storage.Store
}

// NewTransactionService creates a new TransactionService with the given
// storage backend.
func NewTransactionService(store storage.Store) *TransactionService {
	return &TransactionService{store: store}
}

func validateAmount(amount float64) error {
	if amount <= 0 {
		return models.Validationf("amount", "amount must be a positive number")
	}
	return nil
}

// Contribute records a deposit into a group. Deposits are auto-approved and
// the group balance is incremented atomically with the ledger row.
func (s *TransactionService) Contribute(ctx context.Context, userID, groupID string, amount float64, description string) (*models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if _, err := RequireMember(ctx, s.store, userID, groupID); err != nil {
		return nil, err
	}

	t := &models.Transaction{
		UserID:      userID,
		GroupID:     groupID,
		Amount:      amount,
		Description: description,
	}
	if err := s.store.AddContribution(ctx, t); err != nil {
		slog.Error("Contribute failed", "group_id", groupID, "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("Contribution recorded", "transaction_id", t.ID, "group_id", groupID, "user_id", userID, "amount", amount)
	return t, nil
}

// RequestWithdrawal records a pending withdrawal request. The amount must
// not exceed the group's balance at request time; no balance changes until
// an admin approves.
func (s *TransactionService) RequestWithdrawal(ctx context.Context, userID, groupID string, amount float64, description string) (*models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if _, err := RequireMember(ctx, s.store, userID, groupID); err != nil {
		return nil, err
	}

	t := &models.Transaction{
		UserID:      userID,
		GroupID:     groupID,
		Amount:      amount,
		Description: description,
	}
	if err := s.store.AddWithdrawalRequest(ctx, t); err != nil {
		slog.Warn("RequestWithdrawal failed", "group_id", groupID, "user_id", userID, "amount", amount, "error", err)
		return nil, err
	}

	slog.Info("Withdrawal requested", "transaction_id", t.ID, "group_id", groupID, "user_id", userID, "amount", amount)
	return t, nil
}

// Decide approves or rejects a pending withdrawal. Only an admin of the
// withdrawal's group may decide, and each withdrawal is decided at most
// once: a second call fails with models.ErrAlreadyDecided and leaves the
// balance untouched.
func (s *TransactionService) Decide(ctx context.Context, adminID, transactionID string, decision models.TransactionStatus) (*models.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if t.Type != models.TypeWithdrawal {
		return nil, models.ErrNotWithdrawal
	}
	if !decision.IsDecision() {
		return nil, models.Validationf("status", "status must be %q or %q", models.StatusApproved, models.StatusRejected)
	}
	if _, err := RequireAdmin(ctx, s.store, adminID, t.GroupID); err != nil {
		return nil, err
	}

	decided, err := s.store.DecideWithdrawal(ctx, transactionID, decision)
	if err != nil {
		slog.Warn("Decide failed", "transaction_id", transactionID, "admin_id", adminID, "decision", decision, "error", err)
		return nil, err
	}

	slog.Info("Withdrawal decided", "transaction_id", transactionID, "group_id", decided.GroupID, "admin_id", adminID, "decision", decision)
	return decided, nil
}

// ListByGroup returns a group's transactions, most recent first. Members only.
func (s *TransactionService) ListByGroup(ctx context.Context, userID, groupID string) ([]*models.Transaction, error) {
	if _, err := RequireMember(ctx, s.store, userID, groupID); err != nil {
		return nil, err
	}
	return s.store.ListTransactionsByGroup(ctx, groupID)
}

// Get returns a transaction if the caller is a member of its group.
// Non-members get models.ErrNotFound, not a permission error, so the call
// does not leak which transaction IDs exist.
func (s *TransactionService) Get(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if _, err := RequireMember(ctx, s.store, userID, t.GroupID); err != nil {
		if errors.Is(err, models.ErrNotMember) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}
