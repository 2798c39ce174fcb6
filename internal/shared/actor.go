package shared

import "strings"

// Actor is the authenticated (or anonymous) principal attached to a request.
// Role names are normalized to lower case once here so downstream checks can
// compare without re-folding.
type Actor struct {
	ID            int64
	Username      string
	Roles         []string
	Authenticated bool
}

// NewActor builds an Actor with normalized role names.
func NewActor(id int64, username string, roles []string) Actor {
	return Actor{
		ID:            id,
		Username:      username,
		Roles:         NormalizeRoles(roles),
		Authenticated: true,
	}
}

// Anonymous returns the unauthenticated actor.
func Anonymous() Actor {
	return Actor{}
}

// HasRole reports whether the actor holds the named role.
// The name must already be lower case.
func (a Actor) HasRole(name string) bool {
	for _, r := range a.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the actor holds at least one of the names.
func (a Actor) HasAnyRole(names ...string) bool {
	for _, n := range names {
		if a.HasRole(n) {
			return true
		}
	}
	return false
}

// NormalizeRoles lower-cases and trims role names, dropping empties.
func NormalizeRoles(names []string) []string {
	normalized := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(strings.ToLower(n))
		if n == "" {
			continue
		}
		normalized = append(normalized, n)
	}
	return normalized
}
