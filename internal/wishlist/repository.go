// File: internal/wishlist/repository.go
package wishlist

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
	RequesterID     *uuid.UUID
	IncludeInactive bool
	Page            int
	PageSize        int
}

// Repository defines the interface for wishlist data operations.
type Repository interface {
	Create(ctx context.Context, item *WishlistItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*WishlistItem, error)
	Update(ctx context.Context, item *WishlistItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, query SearchQuery) ([]WishlistItem, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM wishlist repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, item *WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*WishlistItem, error) {
	var item WishlistItem
	err := r.db.WithContext(ctx).Preload("Category").First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Wishlist item not found.")
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormRepository) Update(ctx context.Context, item *WishlistItem) error {
	return r.db.WithContext(ctx).Omit("Category").Save(item).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&WishlistItem{BaseModel: common.BaseModel{ID: id}})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Wishlist item not found or already deleted.")
	}
	return nil
}

func (r *gormRepository) FindAll(ctx context.Context, query SearchQuery) ([]WishlistItem, int64, error) {
	var items []WishlistItem
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&WishlistItem{})

	if !query.IncludeInactive {
		dbQuery = dbQuery.Where("wishlist_items.is_active = ?", true)
	}
	if query.RequesterID != nil {
		dbQuery = dbQuery.Where("wishlist_items.requester_id = ?", *query.RequesterID)
	}
	if query.CategorySlug != "" {
		normalizedSlug := strings.ToLower(strings.TrimSpace(query.CategorySlug))
		dbQuery = dbQuery.
			Joins("JOIN categories ON categories.id = wishlist_items.category_id").
			Where("categories.slug = ?", normalizedSlug)
	}
	if query.SearchTerm != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(query.SearchTerm)) + "%"
		dbQuery = dbQuery.Where("LOWER(wishlist_items.title) LIKE ? OR LOWER(wishlist_items.description) LIKE ?", term, term)
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
		Order("wishlist_items.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, totalItems, nil
}
