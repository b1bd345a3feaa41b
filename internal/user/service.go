// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"strings"

	"giventake_backend/internal/common"
	"giventake_backend/internal/shared"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for profile-related business logic.
type Service interface {
	shared.Service
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*Profile, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new profile service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger,
	}
}

func (s *service) GetProfileByID(ctx context.Context, id uuid.UUID) (*shared.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return profile.ToSharedProfile(), nil
}

// GetOrCreateProfileFromFirebaseClaims resolves the local profile for a
// verified Firebase token, creating the row on first sight. Concurrent first
// requests are resolved by retrying the lookup after a unique violation.
func (s *service) GetOrCreateProfileFromFirebaseClaims(ctx context.Context, token *firebaseauth.Token) (*shared.Profile, bool, error) {
	profile, err := s.repo.FindByFirebaseUID(ctx, token.UID)
	if err == nil {
		return profile.ToSharedProfile(), false, nil
	}
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != common.ErrNotFound.StatusCode {
		return nil, false, err
	}

	newProfile := &Profile{FirebaseUID: token.UID}
	if email, ok := token.Claims["email"].(string); ok && email != "" {
		newProfile.Email = &email
		if at := strings.Index(email, "@"); at > 0 {
			username := email[:at]
			newProfile.Username = &username
		}
	}
	if name, ok := token.Claims["name"].(string); ok && name != "" {
		newProfile.Username = &name
	}

	if err := s.repo.Create(ctx, newProfile); err != nil {
		if conflictErr, isAPI := common.IsAPIError(err); isAPI && conflictErr.StatusCode == common.ErrConflict.StatusCode {
			existing, findErr := s.repo.FindByFirebaseUID(ctx, token.UID)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing.ToSharedProfile(), false, nil
		}
		s.logger.Error("Failed to create profile from Firebase claims",
			zap.String("firebase_uid", token.UID), zap.Error(err))
		return nil, false, err
	}

	s.logger.Info("Profile created from Firebase claims",
		zap.String("profile_id", newProfile.ID.String()),
		zap.String("firebase_uid", token.UID),
	)
	return newProfile.ToSharedProfile(), true, nil
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		profile.Username = &trimmed
	}
	if req.Phone != nil {
		trimmed := strings.TrimSpace(*req.Phone)
		profile.Phone = &trimmed
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		s.logger.Error("Failed to update profile", zap.Error(err), zap.String("id", id.String()))
		return nil, err
	}
	s.logger.Info("Profile updated successfully", zap.String("id", profile.ID.String()))
	return profile, nil
}
