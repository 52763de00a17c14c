package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poolup/poolup/internal/models"
	"github.com/poolup/poolup/internal/storage"
)

// GroupService manages savings groups and their memberships.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create makes a new savings group with the caller as its admin member.
func (s *GroupService) Create(ctx context.Context, userID, name, description string, targetAmount float64) (*models.Group, error) {
	if name == "" {
		return nil, models.Validationf("name", "group name is required")
	}
	if targetAmount < 0 {
		return nil, models.Validationf("target_amount", "target amount must not be negative")
	}

	group := &models.Group{
		Name:          name,
		Description:   description,
		TargetAmount:  targetAmount,
		CurrentAmount: 0,
		CreatedBy:     userID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "user_id", userID, "target", targetAmount)
	return group, nil
}

// List returns all groups the caller belongs to. Order is unspecified.
func (s *GroupService) List(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsForUser(ctx, userID)
}

// Get returns a group the caller is a member of. Non-members get
// models.ErrNotMember regardless of whether the group exists.
func (s *GroupService) Get(ctx context.Context, userID, groupID string) (*models.Group, error) {
	if _, err := RequireMember(ctx, s.store, userID, groupID); err != nil {
		return nil, err
	}
	// A membership without a group row should not occur given the cascade
	// delete, but a stale row must still surface as not-found.
	return s.store.GetGroup(ctx, groupID)
}

// Update applies the non-nil patch fields to a group. Admin only.
func (s *GroupService) Update(ctx context.Context, userID, groupID string, patch models.GroupPatch) (*models.Group, error) {
	if _, err := RequireAdmin(ctx, s.store, userID, groupID); err != nil {
		return nil, err
	}
	if patch.TargetAmount != nil && *patch.TargetAmount < 0 {
		return nil, models.Validationf("target_amount", "target amount must not be negative")
	}

	if err := s.store.UpdateGroupFields(ctx, groupID, patch); err != nil {
		slog.Error("UpdateGroup failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("Group updated", "group_id", groupID, "user_id", userID)
	return s.store.GetGroup(ctx, groupID)
}

// Delete removes a group and all of its memberships and transactions.
// Admin only; this is a hard delete with no undo.
func (s *GroupService) Delete(ctx context.Context, userID, groupID string) error {
	if _, err := RequireAdmin(ctx, s.store, userID, groupID); err != nil {
		return err
	}

	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", groupID, "error", err)
		return err
	}

	slog.Info("Group deleted", "group_id", groupID, "user_id", userID)
	return nil
}

// Join adds the caller to a group as a non-admin member.
func (s *GroupService) Join(ctx context.Context, userID, groupID string) (*models.Membership, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	m := &models.Membership{
		UserID:  userID,
		GroupID: groupID,
		IsAdmin: false,
	}
	err := s.store.CreateMembership(ctx, m)
	if errors.Is(err, models.ErrDuplicate) {
		return nil, models.ErrAlreadyMember
	}
	if err != nil {
		slog.Error("JoinGroup failed", "group_id", groupID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to join group: %w", err)
	}

	slog.Info("Member joined group", "group_id", groupID, "user_id", userID)
	return m, nil
}

// Leave removes the caller's membership. The store enforces the last-admin
// rule: the only admin of a group with other members cannot leave
// (models.ErrLastAdmin), while a sole remaining member always can.
func (s *GroupService) Leave(ctx context.Context, userID, groupID string) error {
	err := s.store.RemoveMember(ctx, userID, groupID)
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrNotMember
	}
	if err != nil {
		return err
	}

	slog.Info("Member left group", "group_id", groupID, "user_id", userID)
	return nil
}

// Members lists a group's memberships. Any member may look.
func (s *GroupService) Members(ctx context.Context, userID, groupID string) ([]*models.Membership, error) {
	if _, err := RequireMember(ctx, s.store, userID, groupID); err != nil {
		return nil, err
	}
	return s.store.ListMembershipsByGroup(ctx, groupID)
}

// Promote grants admin rights to another member. Admin only.
func (s *GroupService) Promote(ctx context.Context, adminID, groupID, memberID string) error {
	if _, err := RequireAdmin(ctx, s.store, adminID, groupID); err != nil {
		return err
	}
	if _, err := RequireMember(ctx, s.store, memberID, groupID); err != nil {
		return err
	}

	if err := s.store.SetMembershipAdmin(ctx, memberID, groupID, true); err != nil {
		slog.Error("Promote failed", "group_id", groupID, "member_id", memberID, "error", err)
		return err
	}

	slog.Info("Member promoted to admin", "group_id", groupID, "member_id", memberID, "by", adminID)
	return nil
}
