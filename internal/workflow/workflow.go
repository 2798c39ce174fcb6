// Package workflow implements the publication state machine for posts:
// who may move content between draft, publish and private, and who may
// see it.
package workflow

import (
	"strings"

	"github.com/lumenpress/lumen/internal/authz"
	"github.com/lumenpress/lumen/internal/shared"
)

// Status is the publication state of a post.
type Status string

// Publication states.
const (
	StatusDraft   Status = "draft"
	StatusPublish Status = "publish"
	StatusPrivate Status = "private"
)

// ParseStatus validates a client-supplied status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusPublish:
		return StatusPublish, nil
	case StatusPrivate:
		return StatusPrivate, nil
	default:
		return "", &shared.ValidationError{Field: "status", Message: "must be one of draft, publish, private"}
	}
}

var (
	publishRoles = []string{authz.RoleSuperAdmin, authz.RoleAdministrator, authz.RoleEditor, authz.RoleAuthor}
	privateRoles = []string{authz.RoleSuperAdmin, authz.RoleAdministrator, authz.RoleEditor}
	curatorRoles = []string{authz.RoleSuperAdmin, authz.RoleAdministrator, authz.RoleEditor}
)

// GuardUpdate decides whether the actor may update a post owned by
// authorID into the requested status. Callers default an absent status to
// the post's current one; the role check always runs against the
// effective new status, so a same-status save by the owner re-qualifies.
func GuardUpdate(actor shared.Actor, authorID int64, requested Status) error {
	if !actor.Authenticated || actor.ID != authorID {
		if actor.HasAnyRole(curatorRoles...) {
			return nil
		}
		return &shared.PermissionDenied{Reason: "you are not allowed to update this post"}
	}
	return guardOwnerStatus(actor, requested)
}

// GuardDelete decides whether the actor may delete a post owned by
// authorID in its current status. Deletion of published or private
// content demands the same seniority as moving content there.
func GuardDelete(actor shared.Actor, authorID int64, current Status) error {
	if !actor.Authenticated || actor.ID != authorID {
		if actor.HasAnyRole(curatorRoles...) {
			return nil
		}
		return &shared.PermissionDenied{Reason: "you are not allowed to delete this post"}
	}
	return guardOwnerStatus(actor, current)
}

// guardOwnerStatus applies the owner branch: ownership alone never grants
// publication power, only drafts are unconditionally the owner's.
func guardOwnerStatus(actor shared.Actor, status Status) error {
	switch status {
	case StatusPublish:
		if actor.HasAnyRole(publishRoles...) {
			return nil
		}
		return &shared.PermissionDenied{Reason: "insufficient role for publish, even as the owner"}
	case StatusPrivate:
		if actor.HasAnyRole(privateRoles...) {
			return nil
		}
		return &shared.PermissionDenied{Reason: "insufficient role for private, even as the owner"}
	default:
		return nil
	}
}

// Scope describes which posts a read may return.
type Scope int

const (
	// ScopeAll exposes every post regardless of status or owner.
	ScopeAll Scope = iota
	// ScopeOwnOrPublished exposes published posts plus the actor's own.
	ScopeOwnOrPublished
	// ScopePublished exposes published posts only.
	ScopePublished
)

// Visibility returns the read scope for an actor. Editors and above see
// everything; other authenticated actors see published posts and their
// own; anonymous readers see published posts only.
func Visibility(actor shared.Actor) Scope {
	if actor.HasAnyRole(curatorRoles...) {
		return ScopeAll
	}
	if actor.Authenticated {
		return ScopeOwnOrPublished
	}
	return ScopePublished
}

// CanView reports whether a single post is visible to the actor.
func CanView(actor shared.Actor, authorID int64, status Status) bool {
	switch Visibility(actor) {
	case ScopeAll:
		return true
	case ScopeOwnOrPublished:
		return status == StatusPublish || actor.ID == authorID
	default:
		return status == StatusPublish
	}
}
