package models

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the closed set of catalog roles, ordered by privilege.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEditor     Role = "EDITOR"
	RoleUser       Role = "USER"
)

// rank orders roles for picking the strongest of several.
func (r Role) rank() int {
	switch r {
	case RoleSuperAdmin:
		return 4
	case RoleAdmin:
		return 3
	case RoleEditor:
		return 2
	default:
		return 1
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleUser:
		return true
	}
	return false
}

// NormalizeRole maps any legacy or unknown role string to the nearest known role.
// Unknown values fall back to USER.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "super_admin", "superadmin", "super-admin":
		return RoleSuperAdmin
	case "admin", "account_admin", "content_admin":
		return RoleAdmin
	case "editor", "content_editor":
		return RoleEditor
	default:
		return RoleUser
	}
}

// PrimaryRole picks the most privileged role out of a role list.
func PrimaryRole(roles []string) Role {
	best := RoleUser
	for _, raw := range roles {
		if r := NormalizeRole(raw); r.rank() > best.rank() {
			best = r
		}
	}
	return best
}

// CanManageContent reports whether the role commits content changes directly
// and manages tags, restores and imports.
func CanManageContent(r Role) bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// CanWriteContent reports whether the role may propose or perform event writes.
func CanWriteContent(r Role) bool {
	return CanManageContent(r) || r == RoleEditor
}

// CanApprove reports whether the role may decide pending approvals.
func CanApprove(r Role) bool {
	return CanManageContent(r)
}

// RequiresApproval reports whether writes by this role are queued instead of applied.
func RequiresApproval(r Role) bool {
	return CanWriteContent(r) && !CanManageContent(r)
}

// Actor is the authenticated caller of a core operation.
type Actor struct {
	ID    string
	Email string
	Name  string
	Role  Role
}

// Claims is the JWT claim set issued to catalog users.
type Claims struct {
	jwt.RegisteredClaims
	Email       string   `json:"email"`
	DisplayName string   `json:"displayName"`
	Role        string   `json:"role,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// Actor converts verified claims to an Actor. A singular role claim wins
// over the role list when both are present.
func (c *Claims) Actor() *Actor {
	role := PrimaryRole(c.Roles)
	if c.Role != "" {
		role = NormalizeRole(c.Role)
	}
	return &Actor{
		ID:    c.Subject,
		Email: c.Email,
		Name:  c.DisplayName,
		Role:  role,
	}
}
