package auth

import (
	"github.com/taskdeck/taskdeck-be/internal/apperr"
	"github.com/taskdeck/taskdeck-be/internal/models"
)

// AuthorizeOwnership allows the principal to act on a resource iff they
// own it or carry the admin role. It performs no I/O.
func AuthorizeOwnership(p Principal, resourceOwnerID string) error {
	if p.ID == resourceOwnerID || p.Role == models.RoleAdmin {
		return nil
	}
	return apperr.ErrForbidden
}

// AuthorizeRole allows the principal iff they carry the required role.
// Admin is a universal override, not a separate permission list.
func AuthorizeRole(p Principal, required models.Role) error {
	if p.Role == required || p.Role == models.RoleAdmin {
		return nil
	}
	return apperr.ErrForbidden
}
