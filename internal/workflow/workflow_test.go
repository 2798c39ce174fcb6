package workflow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumenpress/lumen/internal/shared"
)

func actorWith(id int64, roles ...string) shared.Actor {
	return shared.NewActor(id, "user", roles)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Publish ")
	require.NoError(t, err)
	require.Equal(t, StatusPublish, s)

	_, err = ParseStatus("deleted")
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "status", ve.Field)
}

func TestOwnerPublish(t *testing.T) {
	owner := actorWith(7, "author")
	require.NoError(t, GuardUpdate(owner, 7, StatusPublish))

	contributor := actorWith(7, "contributor")
	err := GuardUpdate(contributor, 7, StatusPublish)
	require.True(t, shared.IsDenied(err))
	require.Contains(t, err.Error(), "insufficient role for publish")
}

func TestOwnerPrivate(t *testing.T) {
	editor := actorWith(7, "editor")
	require.NoError(t, GuardUpdate(editor, 7, StatusPrivate))

	author := actorWith(7, "author")
	err := GuardUpdate(author, 7, StatusPrivate)
	require.True(t, shared.IsDenied(err))
	require.Contains(t, err.Error(), "insufficient role for private")
}

func TestOwnerDraftAlwaysAllowed(t *testing.T) {
	subscriber := actorWith(7, "subscriber")
	require.NoError(t, GuardUpdate(subscriber, 7, StatusDraft))
	require.NoError(t, GuardDelete(subscriber, 7, StatusDraft))
}

func TestNonOwnerUpdate(t *testing.T) {
	editor := actorWith(2, "editor")
	require.NoError(t, GuardUpdate(editor, 7, StatusDraft))

	subscriber := actorWith(2, "subscriber")
	err := GuardUpdate(subscriber, 7, StatusDraft)
	require.True(t, shared.IsDenied(err))
	require.Contains(t, err.Error(), "not allowed to update this post")

	author := actorWith(2, "author")
	err = GuardUpdate(author, 7, StatusPublish)
	require.True(t, shared.IsDenied(err))
}

func TestNonOwnerDelete(t *testing.T) {
	admin := actorWith(2, "administrator")
	require.NoError(t, GuardDelete(admin, 7, StatusPublish))

	contributor := actorWith(2, "contributor")
	err := GuardDelete(contributor, 7, StatusDraft)
	require.True(t, shared.IsDenied(err))
	require.Contains(t, err.Error(), "not allowed to delete this post")
}

func TestOwnerDeletePrivateNeedsSeniority(t *testing.T) {
	author := actorWith(7, "author")
	err := GuardDelete(author, 7, StatusPrivate)
	require.True(t, shared.IsDenied(err))

	alsoEditor := actorWith(7, "author", "editor")
	require.NoError(t, GuardDelete(alsoEditor, 7, StatusPrivate))
}

func TestSameStatusSaveReEvaluates(t *testing.T) {
	// A contributor saving their own already-published post is denied:
	// the check runs against the effective new status every time.
	contributor := actorWith(7, "contributor")
	err := GuardUpdate(contributor, 7, StatusPublish)
	require.True(t, shared.IsDenied(err))
}

func TestVisibility(t *testing.T) {
	require.Equal(t, ScopeAll, Visibility(actorWith(1, "editor")))
	require.Equal(t, ScopeAll, Visibility(actorWith(1, "super admin")))
	require.Equal(t, ScopeOwnOrPublished, Visibility(actorWith(1, "author")))
	require.Equal(t, ScopeOwnOrPublished, Visibility(actorWith(1, "subscriber")))
	require.Equal(t, ScopePublished, Visibility(shared.Anonymous()))
}

func TestCanView(t *testing.T) {
	anon := shared.Anonymous()
	require.True(t, CanView(anon, 7, StatusPublish))
	require.False(t, CanView(anon, 7, StatusDraft))

	owner := actorWith(7, "subscriber")
	require.True(t, CanView(owner, 7, StatusDraft))
	require.False(t, CanView(owner, 8, StatusPrivate))

	editor := actorWith(2, "editor")
	require.True(t, CanView(editor, 7, StatusPrivate))
}
