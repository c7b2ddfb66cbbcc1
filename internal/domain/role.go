package domain

import "slices"

// Role is an authority granted to a user. The string values match the
// authority names carried in session tokens.
type Role string

// Known roles.
const (
	RoleAdmin   Role = "ROLE_ADMIN"
	RoleBlogger Role = "ROLE_BLOGGER"
	RoleReader  Role = "ROLE_READER"
)

// DefaultRole is granted at registration when the candidate names no role.
const DefaultRole = RoleReader

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleBlogger, RoleReader:
		return true
	}
	return false
}

// HasRole reports whether roles contains r.
func HasRole(roles []Role, r Role) bool {
	return slices.Contains(roles, r)
}
