// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"

	"giventake_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for profile data operations.
type Repository interface {
	Create(ctx context.Context, profile *Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindByFirebaseUID(ctx context.Context, firebaseUID string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, profile *Profile) error {
	err := r.db.WithContext(ctx).Create(profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("A profile for this account already exists.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var profile Profile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found.")
		}
		return nil, err
	}
	return &profile, nil
}

func (r *gormRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*Profile, error) {
	var profile Profile
	err := r.db.WithContext(ctx).First(&profile, "firebase_uid = ?", firebaseUID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found.")
		}
		return nil, err
	}
	return &profile, nil
}

func (r *gormRepository) Update(ctx context.Context, profile *Profile) error {
	err := r.db.WithContext(ctx).Save(profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("A profile with these details already exists.")
		}
		return err
	}
	return nil
}
