package domain

import (
	"sort"
	"strings"
)

// Role is one of the three fixed access roles.
type Role uint8

const (
	RoleAdmin Role = 1 << iota
	RoleManager
	RoleEmployee
)

// AuthorityPrefix is prepended to role names when rendered as token authorities.
const AuthorityPrefix = "ROLE_"

var roleNames = map[Role]string{
	RoleAdmin:    "ADMIN",
	RoleManager:  "MANAGER",
	RoleEmployee: "EMPLOYEE",
}

// AllRoles lists every defined role in seed order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleEmployee}
}

// Name returns the bare role name, e.g. "ADMIN".
func (r Role) Name() string {
	return roleNames[r]
}

// Authority returns the prefixed form embedded in tokens, e.g. "ROLE_ADMIN".
func (r Role) Authority() string {
	return AuthorityPrefix + r.Name()
}

// ParseRole resolves a role name, accepting either the bare or prefixed form.
func ParseRole(name string) (Role, bool) {
	trimmed := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(name)), AuthorityPrefix)
	for role, n := range roleNames {
		if n == trimmed {
			return role, true
		}
	}
	return 0, false
}

// RoleSet is a compact set of roles; membership checks are bitwise.
type RoleSet uint8

// NewRoleSet builds a set from individual roles.
func NewRoleSet(roles ...Role) RoleSet {
	var set RoleSet
	for _, r := range roles {
		set |= RoleSet(r)
	}
	return set
}

// ParseRoleSet resolves a list of role names; the second return names the
// first unknown entry when resolution fails.
func ParseRoleSet(names []string) (RoleSet, string, bool) {
	var set RoleSet
	for _, name := range names {
		role, ok := ParseRole(name)
		if !ok {
			return 0, name, false
		}
		set |= RoleSet(role)
	}
	return set, "", true
}

// Has reports whether the set contains the role.
func (s RoleSet) Has(r Role) bool {
	return s&RoleSet(r) != 0
}

// Intersects reports whether the two sets share at least one role.
func (s RoleSet) Intersects(other RoleSet) bool {
	return s&other != 0
}

// IsEmpty reports whether no role is present.
func (s RoleSet) IsEmpty() bool {
	return s == 0
}

// Roles expands the set into individual roles in seed order.
func (s RoleSet) Roles() []Role {
	var roles []Role
	for _, r := range AllRoles() {
		if s.Has(r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// Authorities renders the set as sorted prefixed role names.
func (s RoleSet) Authorities() []string {
	authorities := make([]string, 0, 3)
	for _, r := range s.Roles() {
		authorities = append(authorities, r.Authority())
	}
	sort.Strings(authorities)
	return authorities
}
