package auth

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/apperr"
	"github.com/taskdeck/taskdeck-be/internal/models"
)

// CredentialSource is the user lookup the resolver needs. Absent records
// must surface apperr.ErrNotFound.
type CredentialSource interface {
	GetByID(id string) (models.User, error)
}

// Resolver turns an inbound token string into an authenticated Principal.
type Resolver struct {
	codec *TokenCodec
	users CredentialSource
}

// NewResolver creates a Resolver verifying tokens with codec and checking
// subjects against users.
func NewResolver(codec *TokenCodec, users CredentialSource) *Resolver {
	return &Resolver{codec: codec, users: users}
}

// Resolve decodes and validates the token, then builds a Principal from
// the current user record. Decode failures and unknown subjects share one
// external signal so a caller cannot tell a forged token from a deleted
// account.
func (r *Resolver) Resolve(tokenStr string) (Principal, error) {
	claims, err := r.codec.Decode(tokenStr)
	if err != nil {
		log.Debug().Err(err).Msg("Token rejected")
		return Principal{}, apperr.ErrUnauthenticated
	}

	user, err := r.users.GetByID(claims.Subject)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Principal{}, apperr.ErrUnauthenticated
		}
		return Principal{}, fmt.Errorf("resolving token subject: %w", err)
	}

	if !user.IsActive {
		return Principal{}, apperr.ErrAccountInactive
	}

	return Principal{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		IsActive: user.IsActive,
	}, nil
}
