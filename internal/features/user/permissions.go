package user

import (
	"sort"
	"strings"
)

// AdminPermission is the sentinel permission that marks an administrator.
const AdminPermission = "admin"

// PermissionSet is the set of course ids a user may access, plus the admin sentinel.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from raw values, dropping blanks and duplicates.
func NewPermissionSet(values []string) PermissionSet {
	set := make(PermissionSet, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		set[trimmed] = struct{}{}
	}
	return set
}

// Has reports membership.
func (p PermissionSet) Has(value string) bool {
	_, ok := p[value]
	return ok
}

// IsAdmin reports whether the set contains the admin sentinel.
func (p PermissionSet) IsAdmin() bool {
	return p.Has(AdminPermission)
}

// Courses returns the course ids in the set, sorted, without the admin sentinel.
func (p PermissionSet) Courses() []string {
	courses := make([]string, 0, len(p))
	for value := range p {
		if value == AdminPermission {
			continue
		}
		courses = append(courses, value)
	}
	sort.Strings(courses)
	return courses
}

// Slice returns every member sorted.
func (p PermissionSet) Slice() []string {
	values := make([]string, 0, len(p))
	for value := range p {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}
