package auth

import (
	apperrors "github.com/bborisdd/AutoStyle-backend/pkg/errors"
)

// AuthorizeOwner allows access iff the authenticated identity owns the
// resource. Callers are expected to have already established that the
// resource exists, so a miss maps to 403, never 404.
func AuthorizeOwner(claims *Claims, resourceOwnerID int64) error {
	if claims == nil || claims.UserID != resourceOwnerID {
		return apperrors.Forbidden("access denied")
	}
	return nil
}
