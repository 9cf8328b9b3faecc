package auth

import apperrors "cookonomics/internal/errors"

// AssertOwner allows access only when the caller owns the resource. Callers
// check existence first, so a missing resource is reported as not found
// before ownership is considered.
func AssertOwner(resourceOwnerID, callerID uint) error {
	if resourceOwnerID != callerID {
		return apperrors.ErrForbidden
	}
	return nil
}
