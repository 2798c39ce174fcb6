package themes

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/lumenpress/lumen/internal/shared"
)

// TxPort exposes the operations that must happen atomically during an
// exclusive activation.
type TxPort interface {
	Get(ctx context.Context, id uuid.UUID) (Theme, error)
	DeactivateAll(ctx context.Context) error
	SetActive(ctx context.Context, id uuid.UUID) (Theme, error)
}

// RepositoryPort defines data access methods for themes.
type RepositoryPort interface {
	Insert(ctx context.Context, theme Theme) (Theme, error)
	Get(ctx context.Context, id uuid.UUID) (Theme, error)
	Update(ctx context.Context, theme Theme) (Theme, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]Theme, error)
	// WithTx runs fn inside a serializable transaction so the
	// single-active invariant holds under concurrent activations.
	WithTx(ctx context.Context, fn func(context.Context, TxPort) error) error
}

// Service handles theme business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Input carries client-supplied theme fields.
type Input struct {
	Name    string
	Version string
	Options map[string]string
}

// Create stores a new theme, always inactive.
func (s *Service) Create(ctx context.Context, in Input) (Theme, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Theme{}, &shared.ValidationError{Field: "name", Message: "name is required"}
	}
	theme := Theme{
		ID:       uuid.New(),
		Name:     name,
		Version:  strings.TrimSpace(in.Version),
		IsActive: false,
		Options:  in.Options,
	}
	return s.repo.Insert(ctx, theme)
}

// Get fetches a single theme.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Theme, error) {
	return s.repo.Get(ctx, id)
}

// List returns all themes.
func (s *Service) List(ctx context.Context) ([]Theme, error) {
	return s.repo.List(ctx)
}

// Update edits name, version and options. Activation state only changes
// through Activate.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Theme, error) {
	theme, err := s.repo.Get(ctx, id)
	if err != nil {
		return Theme{}, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		theme.Name = name
	}
	if version := strings.TrimSpace(in.Version); version != "" {
		theme.Version = version
	}
	if in.Options != nil {
		theme.Options = in.Options
	}
	return s.repo.Update(ctx, theme)
}

// Activate makes the target the single active theme: every other theme
// is deactivated in the same transaction. Idempotent. Returns the
// updated set.
func (s *Service) Activate(ctx context.Context, id uuid.UUID) ([]Theme, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxPort) error {
		if _, err := tx.Get(ctx, id); err != nil {
			return err
		}
		if err := tx.DeactivateAll(ctx); err != nil {
			return err
		}
		_, err := tx.SetActive(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Delete removes a theme. The active theme cannot be deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	theme, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if theme.IsActive {
		return &shared.InvariantViolation{Message: "cannot delete a theme that is currently active"}
	}
	return s.repo.Delete(ctx, id)
}
