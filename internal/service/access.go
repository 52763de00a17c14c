// Package service implements the savings-pool business logic on top of
// storage.Store: group and membership management, and the contribution /
// withdrawal ledger.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/poolup/poolup/internal/models"
	"github.com/poolup/poolup/internal/storage"
)

// RequireMember checks that userID has a membership in groupID and returns
// it. Fails with models.ErrNotMember otherwise.
//
// Every group and ledger operation calls this (or RequireAdmin) explicitly
// at its top, so the authorization contract is visible at each call site.
func RequireMember(ctx context.Context, store storage.Store, userID, groupID string) (*models.Membership, error) {
	m, err := store.GetMembership(ctx, userID, groupID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNotMember
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	return m, nil
}

// RequireAdmin checks that userID holds an admin membership in groupID.
// Fails with models.ErrNotMember if there is no membership at all, and
// models.ErrNotAdmin if the membership lacks the admin flag.
func RequireAdmin(ctx context.Context, store storage.Store, userID, groupID string) (*models.Membership, error) {
	m, err := RequireMember(ctx, store, userID, groupID)
	if err != nil {
		return nil, err
	}
	if !m.IsAdmin {
		return nil, models.ErrNotAdmin
	}
	return m, nil
}
