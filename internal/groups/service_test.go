package groups

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumenpress/lumen/internal/authz"
	"github.com/lumenpress/lumen/internal/shared"
)

type memoryRepo struct {
	nextID int64
	groups map[int64]Group
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{groups: make(map[int64]Group)}
}

func (r *memoryRepo) Insert(ctx context.Context, group Group) (Group, error) {
	r.nextID++
	group.ID = r.nextID
	r.groups[group.ID] = group
	return group, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Group, error) {
	group, ok := r.groups[id]
	if !ok {
		return Group{}, &shared.NotFound{Kind: "group", ID: "?"}
	}
	return group, nil
}

func (r *memoryRepo) Update(ctx context.Context, group Group) (Group, error) {
	if _, ok := r.groups[group.ID]; !ok {
		return Group{}, &shared.NotFound{Kind: "group", ID: "?"}
	}
	r.groups[group.ID] = group
	return group, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.groups[id]; !ok {
		return &shared.NotFound{Kind: "group", ID: "?"}
	}
	delete(r.groups, id)
	return nil
}

func (r *memoryRepo) List(ctx context.Context) ([]Group, error) {
	result := make([]Group, 0, len(r.groups))
	for _, group := range r.groups {
		result = append(result, group)
	}
	return result, nil
}

func (r *memoryRepo) seed(name string) Group {
	r.nextID++
	group := Group{ID: r.nextID, Name: name}
	r.groups[group.ID] = group
	return group
}

func TestCreateCustomGroup(t *testing.T) {
	svc := NewService(newMemoryRepo())
	group, err := svc.Create(context.Background(), "Newsletter Team")
	require.NoError(t, err)
	require.Equal(t, "Newsletter Team", group.Name)
}

func TestCreateRejectsBuiltInName(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Create(context.Background(), "Editor")
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "name", ve.Field)
}

func TestRenameProtectedRoleDenied(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	editor := repo.seed(authz.RoleEditor)

	_, err := svc.Update(context.Background(), editor.ID, "Redactor")
	require.True(t, shared.IsDenied(err))

	stored, err := repo.Get(context.Background(), editor.ID)
	require.NoError(t, err)
	require.Equal(t, authz.RoleEditor, stored.Name)
}

func TestDeleteProtectedRoleDenied(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	// Case of the stored name must not matter.
	sa := repo.seed("Super Admin")

	err := svc.Delete(context.Background(), sa.ID)
	require.True(t, shared.IsDenied(err))
	_, err = repo.Get(context.Background(), sa.ID)
	require.NoError(t, err)
}

func TestRenameOntoProtectedNameRejected(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	custom := repo.seed("Newsletter Team")

	_, err := svc.Update(context.Background(), custom.ID, "administrator")
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestDeleteCustomGroupAllowed(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	custom := repo.seed("Newsletter Team")

	require.NoError(t, svc.Delete(context.Background(), custom.ID))
	_, err := repo.Get(context.Background(), custom.ID)
	require.True(t, shared.IsNotFound(err))
}
