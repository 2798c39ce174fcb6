package authz

import (
	"strings"

	"github.com/lumenpress/lumen/internal/shared"
)

var protectedRoleNames = map[string]struct{}{
	RoleSubscriber:    {},
	RoleContributor:   {},
	RoleAuthor:        {},
	RoleEditor:        {},
	RoleAdministrator: {},
	RoleSuperAdmin:    {},
}

// IsProtectedRole reports whether the name belongs to the fixed set of
// immutable role records, ignoring case.
func IsProtectedRole(name string) bool {
	_, ok := protectedRoleNames[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// GuardProtectedMutation denies update or delete of a protected role
// record. The check ignores actor rank entirely: even a super admin may
// not touch these records.
func GuardProtectedMutation(recordName string) error {
	if IsProtectedRole(recordName) {
		return shared.Denyf("the role %q is protected and cannot be modified or deleted", CanonicalDisplayName(recordName))
	}
	return nil
}
