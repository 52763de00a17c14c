package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/poolup/poolup/internal/models"
)

// CreateGroup persists a new group and its creator's admin membership in a
// single transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, description, target_amount, current_amount, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		group.ID, group.Name, group.Description, group.TargetAmount, group.CurrentAmount, group.CreatedBy, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO memberships (id, user_id, group_id, is_admin, joined_at) VALUES (?, ?, ?, 1, ?)",
		uuid.New().String(), group.CreatedBy, group.ID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, target_amount, current_amount, created_by, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Description, &group.TargetAmount, &group.CurrentAmount, &group.CreatedBy, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListGroupsForUser returns every group the user has a membership in.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.description, g.target_amount, g.current_amount, g.created_by, g.created_at
		 FROM groups g
		 JOIN memberships m ON m.group_id = g.id
		 WHERE m.user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Description, &group.TargetAmount, &group.CurrentAmount, &group.CreatedBy, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// UpdateGroupFields applies the non-nil fields of patch to the group.
// current_amount is deliberately untouched; only the ledger writes it.
func (s *SQLiteStore) UpdateGroupFields(ctx context.Context, groupID string, patch models.GroupPatch) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	group := &models.Group{}
	err = tx.QueryRowContext(ctx,
		"SELECT name, description, target_amount FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.Name, &group.Description, &group.TargetAmount)
	if err == sql.ErrNoRows {
		return fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}

	if patch.Name != nil {
		group.Name = *patch.Name
	}
	if patch.Description != nil {
		group.Description = *patch.Description
	}
	if patch.TargetAmount != nil {
		group.TargetAmount = *patch.TargetAmount
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE groups SET name = ?, description = ?, target_amount = ? WHERE id = ?",
		group.Name, group.Description, group.TargetAmount, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteGroup removes the group together with all of its memberships and
// transactions. The three deletes run in one transaction so the cascade is
// all-or-nothing.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM transactions WHERE group_id = ?", groupID); err != nil {
		return fmt.Errorf("failed to delete group transactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM memberships WHERE group_id = ?", groupID); err != nil {
		return fmt.Errorf("failed to delete group memberships: %w", err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %s: %w", groupID, models.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
