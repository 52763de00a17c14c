package service

import (
	"context"
	"log/slog"

	"github.com/poolup/poolup/internal/auth"
	"github.com/poolup/poolup/internal/models"
	"github.com/poolup/poolup/internal/storage"
)

// UserService manages user profiles.
type UserService struct {
	store storage.Store
}

// NewUserService creates a new UserService with the given storage backend.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// UserPatch carries the updatable profile fields; nil means unchanged.
type UserPatch struct {
	Username *string
	Email    *string
	Password *string
}

// Update applies the non-nil patch fields to the caller's profile. A new
// password is re-hashed; username and email collisions surface as
// models.ErrDuplicate from the store's unique constraints.
func (s *UserService) Update(ctx context.Context, userID string, patch UserPatch) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		if *patch.Username == "" {
			return nil, models.Validationf("username", "username must not be empty")
		}
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		if *patch.Email == "" {
			return nil, models.Validationf("email", "email must not be empty")
		}
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		if len(*patch.Password) < 8 {
			return nil, auth.ErrWeakPassword
		}
		hashed, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		slog.Error("UpdateUser failed", "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("User updated", "user_id", userID)
	return user, nil
}
