package service

import (
	"context"
	"errors"

	"github.com/wellfora/wellfora/internal/forum/domain"
	"github.com/wellfora/wellfora/internal/forum/store"
)

var ErrUserNotFound = errors.New("user not found")

type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// ListIdentities returns the public identity of every registered user.
func (s *UserService) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	users, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	identities := make([]domain.Identity, 0, len(users))
	for _, u := range users {
		identities = append(identities, u.Identity())
	}
	return identities, nil
}
