// File: internal/wishlist/model.go
package wishlist

import (
	"time"

	"giventake_backend/internal/category"
	"giventake_backend/internal/common"

	"github.com/google/uuid"
)

// WishlistItem represents a "wanted" post: something a buyer is looking for.
type WishlistItem struct {
	common.BaseModel
	RequesterID uuid.UUID         `gorm:"type:uuid;not null;index:idx_wishlist_items_requester_id"`
	CategoryID  uuid.UUID         `gorm:"type:uuid;not null;index:idx_wishlist_items_category_id"`
	Category    category.Category `gorm:"foreignKey:CategoryID;references:ID"`
	Title       string            `gorm:"type:varchar(255);not null"`
	Description *string           `gorm:"type:text"`
	Budget      *float64          `gorm:"type:numeric(10,2)"`
	Currency    string            `gorm:"type:varchar(3);not null;default:'USD'"`
	Condition   *string           `gorm:"type:varchar(20)"`
	Location    *string           `gorm:"type:varchar(255)"`
	IsActive    bool              `gorm:"not null;default:true"`
}

// TableName specifies the table name for the WishlistItem model.
func (WishlistItem) TableName() string {
	return "wishlist_items"
}

// --- DTOs ---

// WishlistItemResponse defines the structure for wishlist data sent in API responses.
type WishlistItemResponse struct {
	ID          uuid.UUID                  `json:"id"`
	RequesterID uuid.UUID                  `json:"requester_id"`
	CategoryID  uuid.UUID                  `json:"category_id"`
	Category    *category.CategoryResponse `json:"category,omitempty"`
	Title       string                     `json:"title"`
	Description *string                    `json:"description,omitempty"`
	Budget      *float64                   `json:"budget,omitempty"`
	Currency    string                     `json:"currency"`
	Condition   *string                    `json:"condition,omitempty"`
	Location    *string                    `json:"location,omitempty"`
	IsActive    bool                       `json:"is_active"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
}

// ToWishlistItemResponse converts a WishlistItem model to its response DTO.
func ToWishlistItemResponse(item *WishlistItem) WishlistItemResponse {
	resp := WishlistItemResponse{
		ID:          item.ID,
		RequesterID: item.RequesterID,
		CategoryID:  item.CategoryID,
		Title:       item.Title,
		Description: item.Description,
		Budget:      item.Budget,
		Currency:    item.Currency,
		Condition:   item.Condition,
		Location:    item.Location,
		IsActive:    item.IsActive,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if item.Category.ID != uuid.Nil {
		cat := category.ToCategoryResponse(&item.Category)
		resp.Category = &cat
	}
	return resp
}

// CreateWishlistItemRequest for posting a wanted item.
type CreateWishlistItemRequest struct {
	Title       string    `json:"title" binding:"required,max=255"`
	Description *string   `json:"description,omitempty"`
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Budget      *float64  `json:"budget,omitempty" binding:"omitempty,gte=0"`
	Currency    string    `json:"currency,omitempty" binding:"omitempty,len=3"`
	Condition   *string   `json:"condition,omitempty" binding:"omitempty,oneof=like-new good fair"`
	Location    *string   `json:"location,omitempty" binding:"omitempty,max=255"`
}

// UpdateWishlistItemRequest for editing a wanted item.
type UpdateWishlistItemRequest struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string    `json:"description,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Budget      *float64   `json:"budget,omitempty" binding:"omitempty,gte=0"`
	Currency    *string    `json:"currency,omitempty" binding:"omitempty,len=3"`
	Condition   *string    `json:"condition,omitempty" binding:"omitempty,oneof=like-new good fair"`
	Location    *string    `json:"location,omitempty" binding:"omitempty,max=255"`
}

// BrowseQuery holds the public wishlist browse filters.
type BrowseQuery struct {
	SearchTerm   string
	CategorySlug string
	Page         int
	PageSize     int
}
