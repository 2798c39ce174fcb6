package authz

import (
	"github.com/lumenpress/lumen/internal/shared"
)

// Authorize evaluates the action gate for an actor. A nil return means
// allow; denials are *shared.PermissionDenied carrying the specific reason.
func Authorize(actor shared.Actor, resource Resource, action Action) error {
	rule := ruleFor(resource, action)
	switch rule.kind {
	case rulePublic:
		return nil
	case ruleAllowRoles:
		if !actor.Authenticated {
			return shared.Denyf("authentication required for %s on %s", action, resource)
		}
		if actor.HasAnyRole(rule.roles...) {
			return nil
		}
		return shared.Denyf("insufficient permission for %s on %s", action, resource)
	default:
		return shared.Denyf("%s on %s is not permitted", action, resource)
	}
}

// CheckAssignedRanks denies assigning roles whose maximum rank exceeds the
// actor's own. With requireNonEmpty set, an empty assignment is a
// validation failure (creation requires at least one role).
func CheckAssignedRanks(actorRank int, roleNames []string, requireNonEmpty bool) error {
	if len(roleNames) == 0 {
		if requireNonEmpty {
			return &shared.ValidationError{Field: "groups", Message: "at least one role must be assigned"}
		}
		return nil
	}
	if EffectiveRank(roleNames) > actorRank {
		return &shared.PermissionDenied{Reason: "you cannot assign a role higher than your own"}
	}
	return nil
}

// CheckTargetRank denies acting on a target whose effective rank strictly
// exceeds the actor's. Equal rank is permitted. The verb names the
// attempted operation in the denial reason.
func CheckTargetRank(actorRank, targetRank int, verb string) error {
	if targetRank > actorRank {
		return shared.Denyf("you cannot %s a user whose role is higher than your own", verb)
	}
	return nil
}
