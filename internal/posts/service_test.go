package posts

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lumenpress/lumen/internal/shared"
	"github.com/lumenpress/lumen/internal/workflow"
)

type memoryRepo struct {
	posts map[uuid.UUID]Post
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{posts: make(map[uuid.UUID]Post)}
}

func (r *memoryRepo) Insert(ctx context.Context, post Post) (Post, error) {
	r.posts[post.ID] = post
	return post, nil
}

func (r *memoryRepo) Get(ctx context.Context, id uuid.UUID) (Post, error) {
	post, ok := r.posts[id]
	if !ok {
		return Post{}, &shared.NotFound{Kind: "post", ID: id.String()}
	}
	return post, nil
}

func (r *memoryRepo) Update(ctx context.Context, post Post) (Post, error) {
	if _, ok := r.posts[post.ID]; !ok {
		return Post{}, &shared.NotFound{Kind: "post", ID: post.ID.String()}
	}
	r.posts[post.ID] = post
	return post, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.posts[id]; !ok {
		return &shared.NotFound{Kind: "post", ID: id.String()}
	}
	delete(r.posts, id)
	return nil
}

func (r *memoryRepo) List(ctx context.Context, scope workflow.Scope, viewerID int64) ([]Post, error) {
	var result []Post
	for _, post := range r.posts {
		switch scope {
		case workflow.ScopeAll:
			result = append(result, post)
		case workflow.ScopeOwnOrPublished:
			if post.Status == workflow.StatusPublish || post.AuthorID == viewerID {
				result = append(result, post)
			}
		default:
			if post.Status == workflow.StatusPublish {
				result = append(result, post)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

func author(id int64, roles ...string) shared.Actor {
	return shared.NewActor(id, "user", roles)
}

func TestCreateForcesDraftAndAuthor(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	actor := author(42, "contributor")
	post, err := svc.Create(ctx, actor, CreateInput{Title: "Hello", Content: "world"})
	require.NoError(t, err)
	require.Equal(t, workflow.StatusDraft, post.Status)
	require.Equal(t, int64(42), post.AuthorID)
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Create(context.Background(), author(1, "author"), CreateInput{Title: "  "})
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "title", ve.Field)
}

func TestOwnerPublishTransition(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := author(7, "author")
	post, err := svc.Create(ctx, owner, CreateInput{Title: "Draft"})
	require.NoError(t, err)

	status := "publish"
	updated, err := svc.Update(ctx, owner, post.ID, UpdateInput{Status: &status})
	require.NoError(t, err)
	require.Equal(t, workflow.StatusPublish, updated.Status)
}

func TestContributorCannotPublishOwnPost(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := author(7, "contributor")
	post, err := svc.Create(ctx, owner, CreateInput{Title: "Draft"})
	require.NoError(t, err)

	status := "publish"
	_, err = svc.Update(ctx, owner, post.ID, UpdateInput{Status: &status})
	require.True(t, shared.IsDenied(err))
	require.Contains(t, err.Error(), "insufficient role for publish")

	stored, err := repo.Get(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, workflow.StatusDraft, stored.Status, "denied update must not mutate")
}

func TestAbsentStatusKeepsCurrent(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := author(7, "author")
	post, err := svc.Create(ctx, owner, CreateInput{Title: "Draft"})
	require.NoError(t, err)

	title := "Renamed"
	updated, err := svc.Update(ctx, owner, post.ID, UpdateInput{Title: &title})
	require.NoError(t, err)
	require.Equal(t, workflow.StatusDraft, updated.Status)
	require.Equal(t, "Renamed", updated.Title)
}

func TestNonOwnerEditorUpdates(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := author(7, "author")
	post, err := svc.Create(ctx, owner, CreateInput{Title: "Draft", Content: "original"})
	require.NoError(t, err)

	editor := author(2, "editor")
	content := "edited"
	updated, err := svc.Update(ctx, editor, post.ID, UpdateInput{Content: &content})
	require.NoError(t, err)
	require.Equal(t, int64(7), updated.AuthorID, "author must be preserved")

	subscriber := author(3, "subscriber")
	_, err = svc.Update(ctx, subscriber, post.ID, UpdateInput{Content: &content})
	require.True(t, shared.IsDenied(err))
}

func TestOwnerDeletePrivateDenied(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := author(7, "author", "editor")
	post, err := svc.Create(ctx, owner, CreateInput{Title: "Secret"})
	require.NoError(t, err)
	status := "private"
	_, err = svc.Update(ctx, owner, post.ID, UpdateInput{Status: &status})
	require.NoError(t, err)

	// Re-evaluate as plain author: private delete needs editor or above.
	plainAuthor := author(7, "author")
	err = svc.Delete(ctx, plainAuthor, post.ID)
	require.True(t, shared.IsDenied(err))

	require.NoError(t, svc.Delete(ctx, owner, post.ID))
}

func TestVisibilityScopes(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := author(7, "author")
	_, err := svc.Create(ctx, owner, CreateInput{Title: "a draft"})
	require.NoError(t, err)
	published, err := svc.Create(ctx, owner, CreateInput{Title: "b published"})
	require.NoError(t, err)
	status := "publish"
	_, err = svc.Update(ctx, owner, published.ID, UpdateInput{Status: &status})
	require.NoError(t, err)

	anon, err := svc.List(ctx, shared.Anonymous())
	require.NoError(t, err)
	require.Len(t, anon, 1)
	require.Equal(t, "b published", anon[0].Title)

	own, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, own, 2)

	other, err := svc.List(ctx, author(9, "subscriber"))
	require.NoError(t, err)
	require.Len(t, other, 1)

	all, err := svc.List(ctx, author(2, "editor"))
	require.NoError(t, err)
	require.Len(t, all, 2)
}

type recordingEvents struct {
	published []Post
}

func (e *recordingEvents) PostPublished(ctx context.Context, post Post) {
	e.published = append(e.published, post)
}

func TestPublishFiresEventOnce(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	events := &recordingEvents{}
	svc.SetEvents(events)
	ctx := context.Background()

	owner := author(7, "author")
	post, err := svc.Create(ctx, owner, CreateInput{Title: "Draft"})
	require.NoError(t, err)
	require.Empty(t, events.published, "creating a draft must not notify")

	status := "publish"
	_, err = svc.Update(ctx, owner, post.ID, UpdateInput{Status: &status})
	require.NoError(t, err)
	require.Len(t, events.published, 1)

	// Saving an already published post again is not a new publication.
	title := "Renamed"
	_, err = svc.Update(ctx, owner, post.ID, UpdateInput{Title: &title, Status: &status})
	require.NoError(t, err)
	require.Len(t, events.published, 1)
}

func TestGetHiddenBehindNotFound(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := author(7, "author")
	post, err := svc.Create(ctx, owner, CreateInput{Title: "Draft"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, shared.Anonymous(), post.ID)
	require.True(t, shared.IsNotFound(err))

	got, err := svc.Get(ctx, owner, post.ID)
	require.NoError(t, err)
	require.Equal(t, post.ID, got.ID)
}
