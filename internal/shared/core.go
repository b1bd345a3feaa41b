// File: internal/shared/core.go
package shared

import (
	"context"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
)

// Profile represents a marketplace user as seen by other feature packages.
type Profile struct {
	ID          uuid.UUID
	FirebaseUID string
	Username    *string
	Email       *string
	Phone       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Service defines the interface for profile-related business logic needed
// outside the user package. Profiles are created lazily on first
// authenticated request.
type Service interface {
	GetProfileByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetOrCreateProfileFromFirebaseClaims(ctx context.Context, token *firebaseauth.Token) (profile *Profile, wasCreated bool, err error)
}

// TokenVerifier abstracts Firebase ID token verification for the auth
// middleware, so handler tests can substitute a stub.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
}
