package plugins

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/lumenpress/lumen/internal/shared"
)

// RepositoryPort defines data access methods for plugins.
type RepositoryPort interface {
	Insert(ctx context.Context, plugin Plugin) (Plugin, error)
	Get(ctx context.Context, id uuid.UUID) (Plugin, error)
	Update(ctx context.Context, plugin Plugin) (Plugin, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]Plugin, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (Plugin, error)
}

// Service handles plugin business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Input carries client-supplied plugin fields.
type Input struct {
	Name     string
	Version  string
	Settings map[string]string
}

// Create stores a new plugin, always inactive.
func (s *Service) Create(ctx context.Context, in Input) (Plugin, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Plugin{}, &shared.ValidationError{Field: "name", Message: "name is required"}
	}
	plugin := Plugin{
		ID:       uuid.New(),
		Name:     name,
		Version:  strings.TrimSpace(in.Version),
		IsActive: false,
		Settings: in.Settings,
	}
	return s.repo.Insert(ctx, plugin)
}

// Get fetches a single plugin.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Plugin, error) {
	return s.repo.Get(ctx, id)
}

// List returns all plugins, active first.
func (s *Service) List(ctx context.Context) ([]Plugin, error) {
	return s.repo.List(ctx)
}

// Update edits name, version and settings.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Plugin, error) {
	plugin, err := s.repo.Get(ctx, id)
	if err != nil {
		return Plugin{}, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		plugin.Name = name
	}
	if version := strings.TrimSpace(in.Version); version != "" {
		plugin.Version = version
	}
	if in.Settings != nil {
		plugin.Settings = in.Settings
	}
	return s.repo.Update(ctx, plugin)
}

// Activate switches the plugin on. Other plugins are left untouched.
func (s *Service) Activate(ctx context.Context, id uuid.UUID) (Plugin, error) {
	return s.repo.SetActive(ctx, id, true)
}

// Deactivate switches the plugin off.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) (Plugin, error) {
	return s.repo.SetActive(ctx, id, false)
}

// Delete removes a plugin. Active plugins may be deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
