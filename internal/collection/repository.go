// File: internal/collection/repository.go
package collection

import (
	"context"
	"errors"
	"strings"

	"giventake_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for collection data operations.
type Repository interface {
	Create(ctx context.Context, collection *Collection) error
	FindByID(ctx context.Context, id uuid.UUID) (*Collection, error)
	FindAll(ctx context.Context) ([]Collection, error)
	FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]Collection, error)
	Update(ctx context.Context, collection *Collection) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM collection repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, collection *Collection) error {
	err := r.db.WithContext(ctx).Create(collection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("A collection with this name already exists.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Collection, error) {
	var collection Collection
	err := r.db.WithContext(ctx).First(&collection, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Collection not found.")
		}
		return nil, err
	}
	return &collection, nil
}

func (r *gormRepository) FindAll(ctx context.Context) ([]Collection, error) {
	var collections []Collection
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&collections).Error
	return collections, err
}

func (r *gormRepository) FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]Collection, error) {
	var collections []Collection
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&collections).Error
	return collections, err
}

func (r *gormRepository) Update(ctx context.Context, collection *Collection) error {
	err := r.db.WithContext(ctx).Save(collection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("A collection with this name already exists.")
		}
		return err
	}
	return nil
}

// Delete clears collection references on listings and removes the collection
// row in a single transaction. Listings themselves are never deleted here.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("listings").
			Where("collection_id = ?", id).
			Update("collection_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&Collection{BaseModel: common.BaseModel{ID: id}})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrNotFound.WithDetails("Collection not found or already deleted.")
		}
		return nil
	})
}
