// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/poolup/poolup/internal/models"
)

// Store defines the persistence interface for the savings service.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Operations that read and then write a group's balance (AddContribution,
// DecideWithdrawal) must execute as a single atomic unit against that group
// row, so that concurrent operations on the same group behave as if run
// sequentially. Operations on different groups may proceed in parallel.
type Store interface {
	// CreateUser persists a new user. The user.ID field is populated by
	// the store. Returns models.ErrDuplicate (wrapped) if the username or
	// email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID. Returns models.ErrNotFound if
	// absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail retrieves a user by email. Returns models.ErrNotFound
	// if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByUsername retrieves a user by username. Returns
	// models.ErrNotFound if absent.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateUser overwrites the mutable user fields (username, email,
	// password hash). Returns models.ErrNotFound if the user is absent and
	// models.ErrDuplicate if the new username or email collides.
	UpdateUser(ctx context.Context, user *models.User) error

	// CreateGroup persists a new group and, in the same atomic unit, an
	// admin membership for its creator. ID and CreatedAt are populated by
	// the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID. Returns models.ErrNotFound if absent.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns every group the user has a membership in.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// UpdateGroupFields applies the non-nil fields of patch to the group.
	// The running balance is never touched here. Returns models.ErrNotFound
	// if the group is absent.
	UpdateGroupFields(ctx context.Context, groupID string, patch models.GroupPatch) error

	// DeleteGroup removes the group and, in the same atomic unit, all of
	// its memberships and transactions. Returns models.ErrNotFound if the
	// group is absent.
	DeleteGroup(ctx context.Context, groupID string) error

	// CreateMembership adds a membership row. ID and JoinedAt are populated
	// by the store. Returns models.ErrDuplicate (wrapped) if the (user,
	// group) pair already exists.
	CreateMembership(ctx context.Context, m *models.Membership) error

	// GetMembership returns the membership for the pair, or
	// models.ErrNotFound.
	GetMembership(ctx context.Context, userID, groupID string) (*models.Membership, error)

	// ListMembershipsByGroup returns all memberships of a group.
	ListMembershipsByGroup(ctx context.Context, groupID string) ([]*models.Membership, error)

	// RemoveMember deletes the caller's membership, enforcing the last-admin
	// rule inside one atomic unit: if the membership is the group's only
	// admin and other members remain, it fails with models.ErrLastAdmin and
	// deletes nothing. Returns models.ErrNotFound if no membership exists.
	RemoveMember(ctx context.Context, userID, groupID string) error

	// SetMembershipAdmin flips the admin flag on an existing membership.
	SetMembershipAdmin(ctx context.Context, userID, groupID string, isAdmin bool) error

	// AddContribution inserts an approved deposit transaction and increments
	// the group's balance by its amount, both in one atomic unit. ID and
	// CreatedAt are populated by the store. Returns models.ErrNotFound if
	// the group is absent.
	AddContribution(ctx context.Context, tx *models.Transaction) error

	// AddWithdrawalRequest inserts a pending withdrawal after checking,
	// inside the same atomic unit, that the amount does not exceed the
	// group's current balance (models.ErrInsufficientFunds otherwise).
	// No balance change happens here.
	AddWithdrawalRequest(ctx context.Context, tx *models.Transaction) error

	// DecideWithdrawal moves a pending withdrawal to approved or rejected.
	// On approval the group balance is decremented in the same atomic unit,
	// after re-checking sufficiency (models.ErrInsufficientFunds). The
	// pending-status guard is part of the same unit: a second decision on
	// the same transaction fails with models.ErrAlreadyDecided and has no
	// effect. Returns the updated transaction.
	DecideWithdrawal(ctx context.Context, transactionID string, decision models.TransactionStatus) (*models.Transaction, error)

	// GetTransaction retrieves a transaction by ID. Returns
	// models.ErrNotFound if absent.
	GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)

	// ListTransactionsByGroup returns the group's transactions ordered by
	// creation time, most recent first.
	ListTransactionsByGroup(ctx context.Context, groupID string) ([]*models.Transaction, error)

	// Close releases any resources held by the store.
	Close() error
}
