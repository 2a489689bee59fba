package services

import (
	"context"
	"fmt"

	"emojichirp/internal/models"
)

type ProfileService struct {
	identity IdentityClient
}

func NewProfileService(identity IdentityClient) *ProfileService {
	return &ProfileService{identity: identity}
}

// GetByUsername returns the first user the provider matches, or ErrNotFound.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, &ValidationError{Field: "username", Msg: "must not be empty"}
	}

	users, err := s.identity.ListByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user %q: %w", username, err)
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return &users[0], nil
}
