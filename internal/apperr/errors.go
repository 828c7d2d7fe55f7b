// Package apperr defines the error kinds shared across service and
// transport boundaries. Handlers translate these to HTTP statuses; nothing
// else should cross a package boundary as a bare string match.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicate marks a uniqueness violation on create or update.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound marks a reference to an absent record.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidCredentials is returned for a failed login. It never says
	// whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthenticated covers missing, malformed, expired or forged
	// tokens, and tokens whose subject no longer exists.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrAccountInactive is returned for a valid token on a deactivated
	// account.
	ErrAccountInactive = errors.New("account is inactive")
	// ErrForbidden is returned when an authenticated principal is not
	// authorized for the resource or role.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation marks malformed client input.
	ErrValidation = errors.New("validation failed")
)

var (
	ErrDuplicateEmail    = fmt.Errorf("%w: email already registered", ErrDuplicate)
	ErrDuplicateUsername = fmt.Errorf("%w: username already taken", ErrDuplicate)
)
