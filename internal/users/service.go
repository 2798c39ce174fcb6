package users

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/lumenpress/lumen/internal/authz"
	"github.com/lumenpress/lumen/internal/shared"
)

// RepositoryPort defines data access methods for user management.
type RepositoryPort interface {
	Insert(ctx context.Context, user User) (User, error)
	Get(ctx context.Context, id int64) (User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]User, error)
}

// Service handles user management business logic. Every mutation runs
// through the rank gates: nobody assigns a role above their own, and
// nobody edits or deletes a user who outranks them.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Input carries client-supplied account fields. A nil Groups slice on
// update means "keep the current assignment"; an explicitly empty one
// is rejected, a role set can never be cleared.
type Input struct {
	Username string
	Email    string
	Password string
	Groups   []string
}

// Create stores a new account. At least one group must be assigned and
// none of them may outrank the caller.
func (s *Service) Create(ctx context.Context, actor shared.Actor, in Input) (User, error) {
	actorRank := authz.EffectiveRank(actor.Roles)
	groups := shared.NormalizeRoles(in.Groups)
	if err := authz.CheckAssignedRanks(actorRank, groups, true); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(in.Password) == "" {
		return User{}, &shared.ValidationError{Field: "password", Message: "password is required"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	user := User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Groups:       groups,
	}
	return s.repo.Insert(ctx, user)
}

// Get fetches a single account.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.Get(ctx, id)
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Update edits an account. The target's current rank is checked before
// anything else so a lower-ranked admin cannot touch a higher account.
func (s *Service) Update(ctx context.Context, actor shared.Actor, id int64, in Input) (User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	actorRank := authz.EffectiveRank(actor.Roles)
	if err := authz.CheckTargetRank(actorRank, authz.EffectiveRank(user.Groups), "edit"); err != nil {
		return User{}, err
	}
	if in.Groups != nil {
		groups := shared.NormalizeRoles(in.Groups)
		if len(groups) == 0 {
			return User{}, &shared.ValidationError{Field: "groups", Message: "at least one role must be assigned"}
		}
		if err := authz.CheckAssignedRanks(actorRank, groups, false); err != nil {
			return User{}, err
		}
		user.Groups = groups
	}
	if username := strings.TrimSpace(in.Username); username != "" {
		user.Username = username
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		user.Email = email
	}
	if password := strings.TrimSpace(in.Password); password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		user.PasswordHash = string(hash)
	}
	return s.repo.Update(ctx, user)
}

// Delete removes an account, subject to the same target rank gate.
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id int64) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	actorRank := authz.EffectiveRank(actor.Roles)
	if err := authz.CheckTargetRank(actorRank, authz.EffectiveRank(user.Groups), "delete"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
