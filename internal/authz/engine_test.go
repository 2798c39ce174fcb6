package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumenpress/lumen/internal/shared"
)

func TestEffectiveRank(t *testing.T) {
	require.Equal(t, 5, EffectiveRank([]string{"super admin"}))
	require.Equal(t, 4, EffectiveRank([]string{"subscriber", "administrator"}))
	require.Equal(t, 0, EffectiveRank([]string{"subscriber"}))
	require.Equal(t, RankNone, EffectiveRank(nil))
	require.Equal(t, RankNone, EffectiveRank([]string{"janitor", "wizard"}))
	require.Equal(t, 3, EffectiveRank([]string{"janitor", "editor"}))
}

func TestValidateMatrix(t *testing.T) {
	require.NoError(t, ValidateMatrix())
}

func TestAuthorizeActionGate(t *testing.T) {
	editor := shared.NewActor(1, "ed", []string{"Editor"})
	subscriber := shared.NewActor(2, "sub", []string{"Subscriber"})
	anon := shared.Anonymous()

	require.NoError(t, Authorize(editor, ResourcePosts, ActionCreate))
	require.NoError(t, Authorize(anon, ResourcePosts, ActionList))
	require.NoError(t, Authorize(anon, ResourcePosts, ActionRetrieve))

	err := Authorize(subscriber, ResourcePosts, ActionCreate)
	require.True(t, shared.IsDenied(err))

	err = Authorize(anon, ResourceMedia, ActionList)
	require.True(t, shared.IsDenied(err))

	require.NoError(t, Authorize(subscriber, ResourceMedia, ActionCreate))
	err = Authorize(subscriber, ResourceMedia, ActionDestroy)
	require.True(t, shared.IsDenied(err))
}

func TestAuthorizeCaseInsensitiveRoles(t *testing.T) {
	actor := shared.NewActor(3, "sa", []string{"SUPER ADMIN"})
	require.NoError(t, Authorize(actor, ResourceThemes, ActionCreate))
	require.NoError(t, Authorize(actor, ResourceUsers, ActionDestroy))
}

func TestAuthorizeUnknownActionDenies(t *testing.T) {
	super := shared.NewActor(4, "sa", []string{"super admin"})
	err := Authorize(super, ResourceMedia, ActionUpdate)
	require.True(t, shared.IsDenied(err))

	err = Authorize(super, Resource("widgets"), ActionList)
	require.True(t, shared.IsDenied(err))
}

func TestAuthorizeSingleRoleCreate(t *testing.T) {
	admin := shared.NewActor(5, "adm", []string{"administrator"})
	err := Authorize(admin, ResourcePlugins, ActionCreate)
	require.True(t, shared.IsDenied(err))
	require.NoError(t, Authorize(admin, ResourcePlugins, ActionActivate))
}

func TestCheckAssignedRanks(t *testing.T) {
	err := CheckAssignedRanks(4, []string{"super admin"}, true)
	require.True(t, shared.IsDenied(err))

	require.NoError(t, CheckAssignedRanks(4, []string{"administrator"}, true))
	require.NoError(t, CheckAssignedRanks(4, []string{"editor", "subscriber"}, true))

	err = CheckAssignedRanks(4, nil, true)
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "groups", ve.Field)

	// Optional assignment on update may be empty.
	require.NoError(t, CheckAssignedRanks(4, nil, false))
}

func TestCheckTargetRank(t *testing.T) {
	require.NoError(t, CheckTargetRank(4, 4, "edit"))
	require.NoError(t, CheckTargetRank(4, 0, "edit"))

	err := CheckTargetRank(4, 5, "delete")
	require.True(t, shared.IsDenied(err))
	require.Contains(t, err.Error(), "delete")
}

func TestGuardProtectedMutation(t *testing.T) {
	for _, name := range []string{"Super Admin", "administrator", "EDITOR", "author", "contributor", "subscriber"} {
		err := GuardProtectedMutation(name)
		require.True(t, shared.IsDenied(err), "expected %q to be protected", name)
	}
	require.NoError(t, GuardProtectedMutation("Moderator"))
}

func TestCanonicalDisplayName(t *testing.T) {
	require.Equal(t, "Super Admin", CanonicalDisplayName("sUpEr AdMiN"))
	require.Equal(t, "Editor", CanonicalDisplayName("editor"))
}
