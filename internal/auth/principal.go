package auth

import "github.com/taskdeck/taskdeck-be/internal/models"

// Principal is the authenticated identity attached to a request after
// token verification. It is a snapshot of the current user record, not of
// the token claims: role and active state are always re-read at resolve
// time so a downgrade or deactivation takes effect on the next request.
type Principal struct {
	ID       string      `json:"id"`
	Email    string      `json:"email"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	IsActive bool        `json:"isActive"`
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}
