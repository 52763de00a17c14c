package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/poolup/poolup/internal/models"
)

// AddContribution inserts an approved deposit and increments the group's
// balance, both inside one transaction. The balance update doubles as the
// group-existence check.
func (s *SQLiteStore) AddContribution(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	t.Type = models.TypeDeposit
	t.Status = models.StatusApproved

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE groups SET current_amount = current_amount + ? WHERE id = ?",
		t.Amount, t.GroupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %s: %w", t.GroupID, models.ErrNotFound)
	}

	if err := insertTransaction(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddWithdrawalRequest inserts a pending withdrawal. The sufficiency check
// runs inside the same transaction as the insert so a concurrent approval
// cannot slip between check and insert.
func (s *SQLiteStore) AddWithdrawalRequest(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	t.Type = models.TypeWithdrawal
	t.Status = models.StatusPending

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var balance float64
	err = tx.QueryRowContext(ctx,
		"SELECT current_amount FROM groups WHERE id = ?", t.GroupID,
	).Scan(&balance)
	if err == sql.ErrNoRows {
		return fmt.Errorf("group %s: %w", t.GroupID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get group balance: %w", err)
	}
	if t.Amount > balance {
		return models.ErrInsufficientFunds
	}

	if err := insertTransaction(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DecideWithdrawal moves a pending withdrawal to a terminal status. The
// status guard is a condition of the UPDATE itself, so of two concurrent
// decisions exactly one wins; the loser sees ErrAlreadyDecided. On approval
// the balance decrement runs in the same transaction and re-checks
// sufficiency so the balance can never go negative.
func (s *SQLiteStore) DecideWithdrawal(ctx context.Context, transactionID string, decision models.TransactionStatus) (*models.Transaction, error) {
	tx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t := &models.Transaction{}
	err = tx.QueryRowContext(ctx,
		"SELECT id, user_id, group_id, amount, type, status, description, created_at FROM transactions WHERE id = ?",
		transactionID,
	).Scan(&t.ID, &t.UserID, &t.GroupID, &t.Amount, &t.Type, &t.Status, &t.Description, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if t.Type != models.TypeWithdrawal {
		return nil, models.ErrNotWithdrawal
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE transactions SET status = ? WHERE id = ? AND status = ?",
		string(decision), transactionID, string(models.StatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return nil, models.ErrAlreadyDecided
	}

	if decision == models.StatusApproved {
		res, err := tx.ExecContext(ctx,
			"UPDATE groups SET current_amount = current_amount - ? WHERE id = ? AND current_amount >= ?",
			t.Amount, t.GroupID, t.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to update group balance: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			// Balance dropped below the requested amount since the request
			// was made; roll back and leave the withdrawal pending.
			return nil, models.ErrInsufficientFunds
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	t.Status = decision
	return t, nil
}

// GetTransaction retrieves a transaction by ID.
func (s *SQLiteStore) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	t := &models.Transaction{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, group_id, amount, type, status, description, created_at FROM transactions WHERE id = ?",
		transactionID,
	).Scan(&t.ID, &t.UserID, &t.GroupID, &t.Amount, &t.Type, &t.Status, &t.Description, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// ListTransactionsByGroup returns a group's transactions, most recent first.
// rowid breaks ties between rows created in the same second.
func (s *SQLiteStore) ListTransactionsByGroup(ctx context.Context, groupID string) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, group_id, amount, type, status, description, created_at FROM transactions WHERE group_id = ? ORDER BY created_at DESC, rowid DESC",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{}
		if err := rows.Scan(&t.ID, &t.UserID, &t.GroupID, &t.Amount, &t.Type, &t.Status, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, t *models.Transaction) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO transactions (id, user_id, group_id, amount, type, status, description, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.UserID, t.GroupID, t.Amount, string(t.Type), string(t.Status), t.Description, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}
