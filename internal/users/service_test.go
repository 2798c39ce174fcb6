package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumenpress/lumen/internal/authz"
	"github.com/lumenpress/lumen/internal/shared"
)

type memoryRepo struct {
	nextID int64
	users  map[int64]User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]User)}
}

func (r *memoryRepo) Insert(ctx context.Context, user User) (User, error) {
	r.nextID++
	user.ID = r.nextID
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (User, error) {
	user, ok := r.users[id]
	if !ok {
		return User{}, &shared.NotFound{Kind: "user", ID: "?"}
	}
	return user, nil
}

func (r *memoryRepo) Update(ctx context.Context, user User) (User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return User{}, &shared.NotFound{Kind: "user", ID: "?"}
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return &shared.NotFound{Kind: "user", ID: "?"}
	}
	delete(r.users, id)
	return nil
}

func (r *memoryRepo) List(ctx context.Context) ([]User, error) {
	result := make([]User, 0, len(r.users))
	for _, user := range r.users {
		result = append(result, user)
	}
	return result, nil
}

func (r *memoryRepo) seed(groups ...string) User {
	r.nextID++
	user := User{ID: r.nextID, Username: "seeded", Groups: groups}
	r.users[user.ID] = user
	return user
}

var (
	admin      = shared.NewActor(1, "admin", []string{authz.RoleAdministrator})
	superAdmin = shared.NewActor(2, "root", []string{authz.RoleSuperAdmin})
)

func TestCreateHashesPassword(t *testing.T) {
	svc := NewService(newMemoryRepo())
	user, err := svc.Create(context.Background(), admin, Input{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
		Groups:   []string{authz.RoleEditor},
	})
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")))
}

func TestCreateRequiresAtLeastOneGroup(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Create(context.Background(), admin, Input{Username: "bob", Password: "s3cret pass"})
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "groups", ve.Field)
}

func TestCreateDeniesAssigningHigherRole(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	_, err := svc.Create(context.Background(), admin, Input{
		Username: "eve",
		Password: "s3cret pass",
		Groups:   []string{authz.RoleSuperAdmin},
	})
	require.True(t, shared.IsDenied(err))
	require.Empty(t, repo.users)
}

func TestCreateAllowsEqualRole(t *testing.T) {
	svc := NewService(newMemoryRepo())
	user, err := svc.Create(context.Background(), admin, Input{
		Username: "peer",
		Password: "s3cret pass",
		Groups:   []string{authz.RoleAdministrator},
	})
	require.NoError(t, err)
	require.Equal(t, []string{authz.RoleAdministrator}, user.Groups)
}

func TestUpdateDeniesHigherRankedTarget(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	target := repo.seed(authz.RoleSuperAdmin)

	_, err := svc.Update(context.Background(), admin, target.ID, Input{Email: "new@example.com"})
	require.True(t, shared.IsDenied(err))
}

func TestUpdateAllowsEqualRankedTarget(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	target := repo.seed(authz.RoleAdministrator)

	updated, err := svc.Update(context.Background(), admin, target.ID, Input{Email: "new@example.com"})
	require.NoError(t, err)
	require.Equal(t, "new@example.com", updated.Email)
}

func TestUpdateNilGroupsKeepsAssignment(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	target := repo.seed(authz.RoleEditor)

	updated, err := svc.Update(context.Background(), admin, target.ID, Input{Username: "renamed"})
	require.NoError(t, err)
	require.Equal(t, []string{authz.RoleEditor}, updated.Groups)
}

func TestUpdateEmptyGroupsRejected(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	target := repo.seed(authz.RoleEditor)

	_, err := svc.Update(context.Background(), admin, target.ID, Input{Groups: []string{}})
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "groups", ve.Field)

	stored, err := repo.Get(context.Background(), target.ID)
	require.NoError(t, err)
	require.Equal(t, []string{authz.RoleEditor}, stored.Groups)
}

func TestUpdateDeniesPromotingAboveActor(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	target := repo.seed(authz.RoleEditor)

	_, err := svc.Update(context.Background(), admin, target.ID, Input{Groups: []string{authz.RoleSuperAdmin}})
	require.True(t, shared.IsDenied(err))
}

func TestDeleteDeniesHigherRankedTarget(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	target := repo.seed(authz.RoleSuperAdmin)

	err := svc.Delete(context.Background(), admin, target.ID)
	require.True(t, shared.IsDenied(err))
	_, err = repo.Get(context.Background(), target.ID)
	require.NoError(t, err)
}

func TestSuperAdminCanManageSuperAdmin(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	target := repo.seed(authz.RoleSuperAdmin)

	require.NoError(t, svc.Delete(context.Background(), superAdmin, target.ID))
}
