// File: internal/listing/repository.go
package listing

import (
	"context"
	"errors"
	"strings"

	"giventake_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SearchQuery holds the filters applied by FindAll.
type SearchQuery struct {
	SearchTerm      string
	CategorySlug    string
	SellerID        *uuid.UUID
	CollectionID    *uuid.UUID
	IncludeInactive bool
	IncludeSold     bool
	Page            int
	PageSize        int
}

// Repository defines the interface for listing and image row data operations.
type Repository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id uuid.UUID, preloadAssociations bool) (*Listing, error)
	Update(ctx context.Context, listing *Listing) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, query SearchQuery) ([]Listing, int64, error)

	InsertImage(ctx context.Context, image *ListingImage) error
	FindImagesByListingID(ctx context.Context, listingID uuid.UUID) ([]ListingImage, error)
	DeleteImageByURL(ctx context.Context, listingID uuid.UUID, url string) error
	DeleteImagesByListingID(ctx context.Context, listingID uuid.UUID) error

	// Sweep support.
	FindActiveListingIDs(ctx context.Context) ([]uuid.UUID, error)
	DeleteImageRowsWithoutActiveListing(ctx context.Context) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM listing repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, listing *Listing) error {
	err := r.db.WithContext(ctx).Create(listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("A listing with these details already exists.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID, preloadAssociations bool) (*Listing, error) {
	var listing Listing
	query := r.db.WithContext(ctx)
	if preloadAssociations {
		query = query.Preload("Category").Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.position ASC, listing_images.created_at ASC")
		})
	}
	err := query.First(&listing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Listing not found.")
		}
		return nil, err
	}
	return &listing, nil
}

func (r *gormRepository) Update(ctx context.Context, listing *Listing) error {
	// Save without touching associations; image rows are managed by the
	// reconciler, not by listing metadata writes.
	err := r.db.WithContext(ctx).Omit("Category", "Images").Save(listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("A listing with these details already exists.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).Model(&Listing{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Listing not found.")
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Listing{BaseModel: common.BaseModel{ID: id}})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Listing not found or already deleted.")
	}
	return nil
}

func (r *gormRepository) FindAll(ctx context.Context, query SearchQuery) ([]Listing, int64, error) {
	var listings []Listing
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Listing{})

	if !query.IncludeInactive {
		dbQuery = dbQuery.Where("listings.is_active = ?", true)
	}
	if !query.IncludeSold {
		dbQuery = dbQuery.Where("listings.status <> ?", StatusSold)
	}
	if query.SellerID != nil {
		dbQuery = dbQuery.Where("listings.seller_id = ?", *query.SellerID)
	}
	if query.CollectionID != nil {
		dbQuery = dbQuery.Where("listings.collection_id = ?", *query.CollectionID)
	}
	if query.CategorySlug != "" {
		normalizedSlug := strings.ToLower(strings.TrimSpace(query.CategorySlug))
		dbQuery = dbQuery.
			Joins("JOIN categories ON categories.id = listings.category_id").
			Where("categories.slug = ?", normalizedSlug)
	}
	if query.SearchTerm != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(query.SearchTerm)) + "%"
		dbQuery = dbQuery.Where("LOWER(listings.title) LIKE ? OR LOWER(listings.description) LIKE ?", term, term)
	}

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	page := query.Page
	if page <= 0 {
		page = common.DefaultPage
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = common.DefaultPageSize
	}
	if pageSize > common.MaxPageSize {
		pageSize = common.MaxPageSize
	}

	err := dbQuery.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("listing_images.position ASC, listing_images.created_at ASC")
		}).
		Order("listings.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}

	return listings, totalItems, nil
}

// --- Image row methods ---

func (r *gormRepository) InsertImage(ctx context.Context, image *ListingImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *gormRepository) FindImagesByListingID(ctx context.Context, listingID uuid.UUID) ([]ListingImage, error) {
	var images []ListingImage
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("position ASC, created_at ASC").
		Find(&images).Error
	return images, err
}

func (r *gormRepository) DeleteImageByURL(ctx context.Context, listingID uuid.UUID, url string) error {
	result := r.db.WithContext(ctx).
		Where("listing_id = ? AND url = ?", listingID, url).
		Delete(&ListingImage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Image not found on this listing.")
	}
	return nil
}

func (r *gormRepository) DeleteImagesByListingID(ctx context.Context, listingID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("listing_id = ?", listingID).Delete(&ListingImage{}).Error
}

// --- Sweep support ---

func (r *gormRepository) FindActiveListingIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&Listing{}).
		Where("is_active = ?", true).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *gormRepository) DeleteImageRowsWithoutActiveListing(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("listing_id NOT IN (?)",
			r.db.Model(&Listing{}).Select("id").Where("is_active = ?", true),
		).
		Delete(&ListingImage{})
	return result.RowsAffected, result.Error
}
