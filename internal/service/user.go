package service

import (
	"context"
	"log/slog"

	"github.com/moviekeep/moviekeep-server/internal/domain"
	"github.com/moviekeep/moviekeep-server/internal/store"
)

// UserService exposes user management over the store.
type UserService struct {
	store  store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// ListUsers returns all registered users.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.store.ListUsers(ctx)
}

// GetUser returns a single user by ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.GetUser(ctx, userID)
}

// AddUser registers a new user.
func (s *UserService) AddUser(ctx context.Context, name string) (*domain.User, error) {
	u, err := s.store.AddUser(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", u.ID)
	return u, nil
}

// DeleteUser removes a user and every movie on their list.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", userID)
	return nil
}
