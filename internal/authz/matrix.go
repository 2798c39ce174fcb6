package authz

import "fmt"

// Resource identifies a guarded resource family.
type Resource string

// Guarded resources.
const (
	ResourcePosts   Resource = "posts"
	ResourceMedia   Resource = "media"
	ResourcePlugins Resource = "plugins"
	ResourceThemes  Resource = "themes"
	ResourceUsers   Resource = "users"
	ResourceGroups  Resource = "groups"
)

// Action identifies an operation on a resource.
type Action string

// Guarded actions.
const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDestroy    Action = "destroy"
	ActionRetrieve   Action = "retrieve"
	ActionList       Action = "list"
	ActionActivate   Action = "activate"
	ActionDeactivate Action = "deactivate"
)

type ruleKind int

const (
	ruleDeny ruleKind = iota
	rulePublic
	ruleAllowRoles
)

// Rule describes who may perform one action on one resource.
type Rule struct {
	kind  ruleKind
	roles []string
}

// AllowRoles builds a rule granting the action to authenticated actors
// holding at least one of the named roles.
func AllowRoles(names ...string) Rule {
	return Rule{kind: ruleAllowRoles, roles: names}
}

// Public builds a rule granting the action to everyone, anonymous included.
func Public() Rule {
	return Rule{kind: rulePublic}
}

// Deny builds a rule refusing the action outright. The upstream system
// expressed this as an always-false permission conjunction; here it is
// an explicit variant.
func Deny() Rule {
	return Rule{kind: ruleDeny}
}

// knownActions enumerates, per resource, every action the service exposes.
// ValidateMatrix checks the matrix covers each of them so an unlisted
// action can never be silently reachable.
var knownActions = map[Resource][]Action{
	ResourcePosts:   {ActionCreate, ActionUpdate, ActionDestroy, ActionRetrieve, ActionList},
	ResourceMedia:   {ActionCreate, ActionUpdate, ActionDestroy, ActionRetrieve, ActionList},
	ResourcePlugins: {ActionCreate, ActionUpdate, ActionDestroy, ActionRetrieve, ActionList, ActionActivate, ActionDeactivate},
	ResourceThemes:  {ActionCreate, ActionUpdate, ActionDestroy, ActionRetrieve, ActionList, ActionActivate, ActionDeactivate},
	ResourceUsers:   {ActionCreate, ActionUpdate, ActionDestroy, ActionRetrieve, ActionList},
	ResourceGroups:  {ActionCreate, ActionUpdate, ActionDestroy, ActionRetrieve, ActionList},
}

var contentEditors = []string{RoleSuperAdmin, RoleAdministrator, RoleEditor, RoleAuthor, RoleContributor}

var siteAdmins = []string{RoleSuperAdmin, RoleAdministrator}

var allRoles = []string{RoleSuperAdmin, RoleAdministrator, RoleEditor, RoleAuthor, RoleContributor, RoleSubscriber}

var matrix = map[Resource]map[Action]Rule{
	ResourcePosts: {
		ActionCreate:   AllowRoles(contentEditors...),
		ActionUpdate:   AllowRoles(contentEditors...),
		ActionDestroy:  AllowRoles(contentEditors...),
		ActionRetrieve: Public(),
		ActionList:     Public(),
	},
	ResourceMedia: {
		ActionCreate:   AllowRoles(RoleSuperAdmin, RoleAdministrator, RoleEditor, RoleAuthor, RoleSubscriber),
		ActionUpdate:   Deny(),
		ActionDestroy:  AllowRoles(siteAdmins...),
		ActionRetrieve: AllowRoles(allRoles...),
		ActionList:     AllowRoles(allRoles...),
	},
	ResourcePlugins: {
		ActionCreate:     AllowRoles(RoleSuperAdmin),
		ActionUpdate:     AllowRoles(siteAdmins...),
		ActionDestroy:    AllowRoles(siteAdmins...),
		ActionRetrieve:   AllowRoles(siteAdmins...),
		ActionList:       AllowRoles(siteAdmins...),
		ActionActivate:   AllowRoles(siteAdmins...),
		ActionDeactivate: AllowRoles(siteAdmins...),
	},
	ResourceThemes: {
		ActionCreate:     AllowRoles(RoleSuperAdmin),
		ActionUpdate:     AllowRoles(siteAdmins...),
		ActionDestroy:    AllowRoles(siteAdmins...),
		ActionRetrieve:   AllowRoles(siteAdmins...),
		ActionList:       AllowRoles(siteAdmins...),
		ActionActivate:   AllowRoles(siteAdmins...),
		ActionDeactivate: AllowRoles(siteAdmins...),
	},
	ResourceUsers: {
		ActionCreate:   AllowRoles(siteAdmins...),
		ActionUpdate:   AllowRoles(siteAdmins...),
		ActionDestroy:  AllowRoles(siteAdmins...),
		ActionRetrieve: AllowRoles(siteAdmins...),
		ActionList:     AllowRoles(siteAdmins...),
	},
	ResourceGroups: {
		ActionCreate:   AllowRoles(siteAdmins...),
		ActionUpdate:   AllowRoles(siteAdmins...),
		ActionDestroy:  AllowRoles(siteAdmins...),
		ActionRetrieve: AllowRoles(siteAdmins...),
		ActionList:     AllowRoles(siteAdmins...),
	},
}

// ValidateMatrix verifies every known (resource, action) pair has an
// explicit rule. Called at startup so a missing entry fails fast instead
// of falling through to the implicit deny at request time.
func ValidateMatrix() error {
	for resource, actions := range knownActions {
		rules, ok := matrix[resource]
		if !ok {
			return fmt.Errorf("authz: no rules registered for resource %q", resource)
		}
		for _, action := range actions {
			if _, ok := rules[action]; !ok {
				return fmt.Errorf("authz: no rule for %s on %s", action, resource)
			}
		}
	}
	return nil
}

// ruleFor looks up the rule for a pair. Unregistered pairs deny.
func ruleFor(resource Resource, action Action) Rule {
	rules, ok := matrix[resource]
	if !ok {
		return Deny()
	}
	rule, ok := rules[action]
	if !ok {
		return Deny()
	}
	return rule
}
