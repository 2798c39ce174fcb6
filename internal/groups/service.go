package groups

import (
	"context"
	"strings"

	"github.com/lumenpress/lumen/internal/authz"
	"github.com/lumenpress/lumen/internal/shared"
)

// RepositoryPort defines data access methods for groups.
type RepositoryPort interface {
	Insert(ctx context.Context, group Group) (Group, error)
	Get(ctx context.Context, id int64) (Group, error)
	Update(ctx context.Context, group Group) (Group, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Group, error)
}

// Service handles group business logic. The guard runs against the
// record's CURRENT name, so renaming a protected role away is just as
// forbidden as renaming something onto it.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create stores a new custom group. Names colliding with a built-in
// role are rejected up front rather than via the unique index.
func (s *Service) Create(ctx context.Context, name string) (Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Group{}, &shared.ValidationError{Field: "name", Message: "name is required"}
	}
	if authz.IsProtectedRole(name) {
		return Group{}, &shared.ValidationError{Field: "name", Message: "name collides with a built-in role"}
	}
	return s.repo.Insert(ctx, Group{Name: name})
}

// Get fetches a single group.
func (s *Service) Get(ctx context.Context, id int64) (Group, error) {
	return s.repo.Get(ctx, id)
}

// List returns all groups.
func (s *Service) List(ctx context.Context) ([]Group, error) {
	return s.repo.List(ctx)
}

// Update renames a group. Protected role records cannot be renamed.
func (s *Service) Update(ctx context.Context, id int64, name string) (Group, error) {
	group, err := s.repo.Get(ctx, id)
	if err != nil {
		return Group{}, err
	}
	if err := authz.GuardProtectedMutation(group.Name); err != nil {
		return Group{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Group{}, &shared.ValidationError{Field: "name", Message: "name is required"}
	}
	if authz.IsProtectedRole(name) {
		return Group{}, &shared.ValidationError{Field: "name", Message: "name collides with a built-in role"}
	}
	group.Name = name
	return s.repo.Update(ctx, group)
}

// Delete removes a group. Protected role records cannot be deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	group, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.GuardProtectedMutation(group.Name); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
