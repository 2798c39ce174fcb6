package posts

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/lumenpress/lumen/internal/shared"
	"github.com/lumenpress/lumen/internal/workflow"
)

// RepositoryPort defines data access methods for posts.
type RepositoryPort interface {
	Insert(ctx context.Context, post Post) (Post, error)
	Get(ctx context.Context, id uuid.UUID) (Post, error)
	Update(ctx context.Context, post Post) (Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, scope workflow.Scope, viewerID int64) ([]Post, error)
}

// Events receives workflow notifications. Implementations must not
// block; failures are the implementation's problem, not the caller's.
type Events interface {
	PostPublished(ctx context.Context, post Post)
}

// Service handles post business logic.
type Service struct {
	repo   RepositoryPort
	events Events
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// SetEvents attaches an optional event sink for publish notifications.
func (s *Service) SetEvents(events Events) {
	s.events = events
}

// CreateInput carries client-supplied fields for a new post. Status and
// author values from the client are ignored: every post starts life as
// the creating actor's draft.
type CreateInput struct {
	Title   string
	Content string
}

// UpdateInput carries client-supplied fields for an update. A nil Status
// means "keep the current one"; the workflow check still runs against
// the effective status.
type UpdateInput struct {
	Title   *string
	Content *string
	Status  *string
}

// Create stores a new draft owned by the actor.
func (s *Service) Create(ctx context.Context, actor shared.Actor, in CreateInput) (Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Post{}, &shared.ValidationError{Field: "title", Message: "title is required"}
	}
	post := Post{
		ID:       uuid.New(),
		Title:    title,
		Content:  in.Content,
		AuthorID: actor.ID,
		Status:   workflow.StatusDraft,
	}
	return s.repo.Insert(ctx, post)
}

// Get returns a single post, hidden behind NotFound when the actor's
// visibility scope does not include it.
func (s *Service) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	if !workflow.CanView(actor, post.AuthorID, post.Status) {
		return Post{}, &shared.NotFound{Kind: "post", ID: id.String()}
	}
	return post, nil
}

// List returns posts visible to the actor, newest first.
func (s *Service) List(ctx context.Context, actor shared.Actor) ([]Post, error) {
	return s.repo.List(ctx, workflow.Visibility(actor), actor.ID)
}

// Update applies changes guarded by the status workflow. The author is
// always preserved.
func (s *Service) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in UpdateInput) (Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}

	requested := post.Status
	if in.Status != nil {
		requested, err = workflow.ParseStatus(*in.Status)
		if err != nil {
			return Post{}, err
		}
	}
	if err := workflow.GuardUpdate(actor, post.AuthorID, requested); err != nil {
		return Post{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Post{}, &shared.ValidationError{Field: "title", Message: "title is required"}
		}
		post.Title = title
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	wentLive := requested == workflow.StatusPublish && post.Status != workflow.StatusPublish
	post.Status = requested
	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return Post{}, err
	}
	if wentLive && s.events != nil {
		s.events.PostPublished(ctx, updated)
	}
	return updated, nil
}

// Delete removes a post guarded by the status workflow.
func (s *Service) Delete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := workflow.GuardDelete(actor, post.AuthorID, post.Status); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
