// Package authz implements the authorization core: the role hierarchy,
// the per-resource permission matrix and the decision engine combining them.
package authz

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical role names, stored and compared lower case.
const (
	RoleSubscriber    = "subscriber"
	RoleContributor   = "contributor"
	RoleAuthor        = "author"
	RoleEditor        = "editor"
	RoleAdministrator = "administrator"
	RoleSuperAdmin    = "super admin"
)

// RankNone is the effective rank of an actor holding no recognized role.
const RankNone = -1

var roleRanks = map[string]int{
	RoleSubscriber:    0,
	RoleContributor:   1,
	RoleAuthor:        2,
	RoleEditor:        3,
	RoleAdministrator: 4,
	RoleSuperAdmin:    5,
}

var titleCaser = cases.Title(language.English)

// Rank returns the rank of a canonical role name and whether it is recognized.
func Rank(name string) (int, bool) {
	rank, ok := roleRanks[strings.ToLower(strings.TrimSpace(name))]
	return rank, ok
}

// EffectiveRank computes the maximum rank across the given role names.
// Unrecognized names are ignored; an empty or fully unrecognized set
// yields RankNone.
func EffectiveRank(names []string) int {
	effective := RankNone
	for _, n := range names {
		if rank, ok := Rank(n); ok && rank > effective {
			effective = rank
		}
	}
	return effective
}

// IsCanonicalRole reports whether the name matches one of the six
// built-in roles, ignoring case.
func IsCanonicalRole(name string) bool {
	_, ok := Rank(name)
	return ok
}

// CanonicalDisplayName returns the title-cased form of a role name,
// e.g. "super admin" becomes "Super Admin".
func CanonicalDisplayName(name string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(name)))
}
