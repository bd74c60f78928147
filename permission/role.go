package permission

import "strings"

// Role is a permission level. Higher values are more privileged.
type Role uint8

const (
	// RoleUnknown is the zero value and denies everything.
	RoleUnknown Role = iota
	// Viewer may read.
	Viewer
	// Editor may change content.
	Editor
	// Manager may manage other editors' content.
	Manager
	// Admin may do everything.
	Admin
)

var roleNames = [...]string{
	RoleUnknown: "unknown",
	Viewer:      "viewer",
	Editor:      "editor",
	Manager:     "manager",
	Admin:       "admin",
}

// Roles returns the known roles in ascending order.
func Roles() []Role {
	return []Role{Viewer, Editor, Manager, Admin}
}

// ParseRole maps a role name to its Role. Matching ignores case and
// surrounding whitespace. Unknown names return RoleUnknown and false.
func ParseRole(name string) (Role, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for r := Viewer; r <= Admin; r++ {
		if roleNames[r] == name {
			return r, true
		}
	}
	return RoleUnknown, false
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r >= Viewer && r <= Admin
}

// Level returns the ordinal of r: viewer=1 through admin=4, and 0 for any
// value outside the enumeration.
func (r Role) Level() int {
	if !r.Valid() {
		return 0
	}
	return int(r)
}

func (r Role) String() string {
	if !r.Valid() {
		return roleNames[RoleUnknown]
	}
	return roleNames[r]
}

// HasPermission reports whether actual is at least as privileged as required.
// Either side being unknown denies.
func HasPermission(actual, required Role) bool {
	if !actual.Valid() || !required.Valid() {
		return false
	}
	return actual.Level() >= required.Level()
}

// HasPermissionNamed is HasPermission over role names.
func HasPermissionNamed(actual, required string) bool {
	a, ok := ParseRole(actual)
	if !ok {
		return false
	}
	r, ok := ParseRole(required)
	if !ok {
		return false
	}
	return HasPermission(a, r)
}
