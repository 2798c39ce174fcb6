package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/lumenpress/lumen/internal/shared"
)

// RepositoryPort defines persistence operations for the auth module.
type RepositoryPort interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindWithRoles(ctx context.Context, userID int64) (*User, []string, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a new Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Authenticate validates username/password credentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// ActorByID resolves a user id to a request actor with its group names.
// Satisfies app.ActorSource.
func (s *Service) ActorByID(ctx context.Context, userID int64) (shared.Actor, error) {
	user, roles, err := s.repo.FindWithRoles(ctx, userID)
	if err != nil {
		return shared.Anonymous(), err
	}
	return shared.NewActor(user.ID, user.Username, roles), nil
}
