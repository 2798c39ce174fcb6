package plugins

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lumenpress/lumen/internal/shared"
)

type memoryRepo struct {
	plugins map[uuid.UUID]Plugin
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{plugins: make(map[uuid.UUID]Plugin)}
}

func (r *memoryRepo) Insert(ctx context.Context, plugin Plugin) (Plugin, error) {
	r.plugins[plugin.ID] = plugin
	return plugin, nil
}

func (r *memoryRepo) Get(ctx context.Context, id uuid.UUID) (Plugin, error) {
	plugin, ok := r.plugins[id]
	if !ok {
		return Plugin{}, &shared.NotFound{Kind: "plugin", ID: id.String()}
	}
	return plugin, nil
}

func (r *memoryRepo) Update(ctx context.Context, plugin Plugin) (Plugin, error) {
	if _, ok := r.plugins[plugin.ID]; !ok {
		return Plugin{}, &shared.NotFound{Kind: "plugin", ID: plugin.ID.String()}
	}
	r.plugins[plugin.ID] = plugin
	return plugin, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.plugins[id]; !ok {
		return &shared.NotFound{Kind: "plugin", ID: id.String()}
	}
	delete(r.plugins, id)
	return nil
}

func (r *memoryRepo) List(ctx context.Context) ([]Plugin, error) {
	result := make([]Plugin, 0, len(r.plugins))
	for _, plugin := range r.plugins {
		result = append(result, plugin)
	}
	return result, nil
}

func (r *memoryRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (Plugin, error) {
	plugin, ok := r.plugins[id]
	if !ok {
		return Plugin{}, &shared.NotFound{Kind: "plugin", ID: id.String()}
	}
	plugin.IsActive = active
	r.plugins[id] = plugin
	return plugin, nil
}

func TestCreateStartsInactive(t *testing.T) {
	svc := NewService(newMemoryRepo())
	plugin, err := svc.Create(context.Background(), Input{Name: "SEO Pack", Version: "2.1"})
	require.NoError(t, err)
	require.False(t, plugin.IsActive)
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Create(context.Background(), Input{Name: "  "})
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "name", ve.Field)
}

func TestActivateIsNotExclusive(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, Input{Name: "First"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, Input{Name: "Second"})
	require.NoError(t, err)

	_, err = svc.Activate(ctx, first.ID)
	require.NoError(t, err)
	_, err = svc.Activate(ctx, second.ID)
	require.NoError(t, err)

	stored, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, stored.IsActive)
	stored, err = repo.Get(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, stored.IsActive)
}

func TestDeactivateOnlyFlipsTarget(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, Input{Name: "First"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, Input{Name: "Second"})
	require.NoError(t, err)
	_, err = svc.Activate(ctx, first.ID)
	require.NoError(t, err)
	_, err = svc.Activate(ctx, second.ID)
	require.NoError(t, err)

	plugin, err := svc.Deactivate(ctx, first.ID)
	require.NoError(t, err)
	require.False(t, plugin.IsActive)

	stored, err := repo.Get(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, stored.IsActive)
}

func TestDeleteActivePluginAllowed(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	plugin, err := svc.Create(ctx, Input{Name: "Cache"})
	require.NoError(t, err)
	_, err = svc.Activate(ctx, plugin.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, plugin.ID))
	_, err = repo.Get(ctx, plugin.ID)
	require.True(t, shared.IsNotFound(err))
}

func TestActivateUnknownID(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Activate(context.Background(), uuid.New())
	require.True(t, shared.IsNotFound(err))
}
