package media

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/lumenpress/lumen/internal/shared"
)

// RepositoryPort defines data access methods for media.
type RepositoryPort interface {
	Insert(ctx context.Context, item Media) (Media, error)
	Get(ctx context.Context, id uuid.UUID) (Media, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]Media, error)
}

// Service handles media business logic. Media records are immutable
// after upload: they can be created, listed and deleted, never edited.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Input carries client-supplied media fields.
type Input struct {
	Name      string
	Path      string
	MimeType  string
	SizeBytes int64
}

// Create stores a new media record. The uploader is always the
// authenticated actor, regardless of what the client sent.
func (s *Service) Create(ctx context.Context, actor shared.Actor, in Input) (Media, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Media{}, &shared.ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(in.Path) == "" {
		return Media{}, &shared.ValidationError{Field: "path", Message: "path is required"}
	}
	item := Media{
		ID:        uuid.New(),
		Name:      name,
		Path:      strings.TrimSpace(in.Path),
		MimeType:  in.MimeType,
		SizeBytes: in.SizeBytes,
		AuthorID:  actor.ID,
	}
	return s.repo.Insert(ctx, item)
}

// Get fetches a single media record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Media, error) {
	return s.repo.Get(ctx, id)
}

// List returns all media records.
func (s *Service) List(ctx context.Context) ([]Media, error) {
	return s.repo.List(ctx)
}

// Delete removes a media record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
