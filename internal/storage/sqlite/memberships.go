package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/poolup/poolup/internal/models"
)

// CreateMembership adds a membership row.
func (s *SQLiteStore) CreateMembership(ctx context.Context, m *models.Membership) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.JoinedAt == 0 {
		m.JoinedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO memberships (id, user_id, group_id, is_admin, joined_at) VALUES (?, ?, ?, ?, ?)",
		m.ID, m.UserID, m.GroupID, m.IsAdmin, m.JoinedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("membership (%s, %s): %w", m.UserID, m.GroupID, models.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert membership: %w", err)
	}
	return nil
}

// GetMembership returns the membership for the (user, group) pair.
func (s *SQLiteStore) GetMembership(ctx context.Context, userID, groupID string) (*models.Membership, error) {
	m := &models.Membership{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, group_id, is_admin, joined_at FROM memberships WHERE user_id = ? AND group_id = ?",
		userID, groupID,
	).Scan(&m.ID, &m.UserID, &m.GroupID, &m.IsAdmin, &m.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("membership (%s, %s): %w", userID, groupID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

// ListMembershipsByGroup returns all memberships of a group.
func (s *SQLiteStore) ListMembershipsByGroup(ctx context.Context, groupID string) ([]*models.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, group_id, is_admin, joined_at FROM memberships WHERE group_id = ?",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var members []*models.Membership
	for rows.Next() {
		m := &models.Membership{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.GroupID, &m.IsAdmin, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memberships: %w", err)
	}
	return members, nil
}

// RemoveMember deletes the user's membership, enforcing the last-admin rule
// inside the same transaction as the delete. A sole remaining member may
// always leave, even as the only admin.
func (s *SQLiteStore) RemoveMember(ctx context.Context, userID, groupID string) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var isAdmin bool
	err = tx.QueryRowContext(ctx,
		"SELECT is_admin FROM memberships WHERE user_id = ? AND group_id = ?",
		userID, groupID,
	).Scan(&isAdmin)
	if err == sql.ErrNoRows {
		return fmt.Errorf("membership (%s, %s): %w", userID, groupID, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get membership: %w", err)
	}

	if isAdmin {
		var adminCount, memberCount int
		err = tx.QueryRowContext(ctx,
			"SELECT COUNT(*), SUM(is_admin) FROM memberships WHERE group_id = ?",
			groupID,
		).Scan(&memberCount, &adminCount)
		if err != nil {
			return fmt.Errorf("failed to count memberships: %w", err)
		}
		if adminCount == 1 && memberCount > 1 {
			return models.ErrLastAdmin
		}
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM memberships WHERE user_id = ? AND group_id = ?",
		userID, groupID,
	); err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetMembershipAdmin flips the admin flag on an existing membership.
func (s *SQLiteStore) SetMembershipAdmin(ctx context.Context, userID, groupID string, isAdmin bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE memberships SET is_admin = ? WHERE user_id = ? AND group_id = ?",
		isAdmin, userID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update membership: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("membership (%s, %s): %w", userID, groupID, models.ErrNotFound)
	}
	return nil
}
