// File: internal/user/model.go
package user

import (
	"time"

	"giventake_backend/internal/common"
	"giventake_backend/internal/shared"

	"github.com/google/uuid"
)

// Profile represents the profile model in the database.
type Profile struct {
	common.BaseModel
	FirebaseUID string  `gorm:"type:varchar(128);not null;uniqueIndex:idx_profiles_firebase_uid,unique"`
	Username    *string `gorm:"type:varchar(50)"`
	Email       *string `gorm:"type:varchar(255)"`
	Phone       *string `gorm:"type:varchar(30)"`
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}

// ToSharedProfile converts the GORM model to the shared representation.
func (p *Profile) ToSharedProfile() *shared.Profile {
	return &shared.Profile{
		ID:          p.ID,
		FirebaseUID: p.FirebaseUID,
		Username:    p.Username,
		Email:       p.Email,
		Phone:       p.Phone,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// --- DTOs ---

// ProfileResponse defines the structure for profile data sent in API responses.
type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  *string   `json:"username,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToProfileResponse converts a Profile model to a ProfileResponse DTO.
func ToProfileResponse(profile *Profile) ProfileResponse {
	return ProfileResponse{
		ID:        profile.ID,
		Username:  profile.Username,
		Email:     profile.Email,
		Phone:     profile.Phone,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

// UpdateProfileRequest for profile self-service updates.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=2,max=50"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,max=30"`
}
