package application

import (
	"github.com/oksasatya/mesto-api/internal/domain/apperror"
	"github.com/oksasatya/mesto-api/internal/domain/entity"
)

// RequireAuthenticated rejects a call without a principal. Operations that
// only act on the caller's own id need nothing more.
func RequireAuthenticated(p entity.Principal) error {
	if p.ID == "" {
		return apperror.NotAuthorized("")
	}
	return nil
}

// RequireOwner allows the call only when the principal owns the resource.
func RequireOwner(p entity.Principal, ownerID string) error {
	if err := RequireAuthenticated(p); err != nil {
		return err
	}
	if p.ID != ownerID {
		return apperror.Forbidden("")
	}
	return nil
}

// RequireSelf allows a mutation of a user record only by that user.
func RequireSelf(p entity.Principal, userID string) error {
	return RequireOwner(p, userID)
}
