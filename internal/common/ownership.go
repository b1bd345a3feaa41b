// File: internal/common/ownership.go
package common

import "github.com/google/uuid"

// RequireOwner is the ownership guard applied before every mutating
// operation. The owner field must be fetched fresh from the database by the
// caller; the check is never cached across requests. The existence check
// (404) happens before this guard, since ownership of a missing row is
// meaningless.
func RequireOwner(actor, owner uuid.UUID) error {
	if actor == uuid.Nil {
		return ErrUnauthorized.WithDetails("You must be signed in to perform this action.")
	}
	if actor != owner {
		return ErrForbidden.WithDetails("You do not own this resource.")
	}
	return nil
}
