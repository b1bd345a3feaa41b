// File: internal/listing/model.go
package listing

import (
	"time"

	"giventake_backend/internal/category"
	"giventake_backend/internal/common"

	"github.com/google/uuid"
)

// Condition describes the physical state of an item.
type Condition string

const (
	ConditionLikeNew Condition = "like-new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
)

// Status describes where a listing is in its selling lifecycle.
// Transitions are unconstrained: a sold listing may be relisted as available.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusNegotiating Status = "negotiating"
	StatusSold        Status = "sold"
)

// Listing represents the listing model in the database.
type Listing struct {
	common.BaseModel
	SellerID     uuid.UUID         `gorm:"type:uuid;not null;index:idx_listings_seller_id"`
	CategoryID   uuid.UUID         `gorm:"type:uuid;not null;index:idx_listings_category_id"`
	Category     category.Category `gorm:"foreignKey:CategoryID;references:ID"`
	CollectionID *uuid.UUID        `gorm:"type:uuid;index:idx_listings_collection_id"`
	Title        string            `gorm:"type:varchar(255);not null"`
	Description  *string           `gorm:"type:text"`
	Price        float64           `gorm:"type:numeric(10,2);not null"`
	Currency     string            `gorm:"type:varchar(3);not null;default:'USD'"`
	Condition    Condition         `gorm:"type:varchar(20);not null"`
	Location     *string           `gorm:"type:varchar(255)"`
	Status       Status            `gorm:"type:varchar(20);not null;default:'available'"`
	IsActive     bool              `gorm:"not null;default:true"`
	Images       []ListingImage    `gorm:"foreignKey:ListingID"`
}

// TableName specifies the table name for the Listing model.
func (Listing) TableName() string {
	return "listings"
}

// ListingImage represents a stored image reference for a listing.
// The row is the source of truth for which objects a listing owns; the
// storage key is derived from the URL when objects need to be touched.
type ListingImage struct {
	common.BaseModel
	ListingID uuid.UUID `gorm:"type:uuid;not null;index:idx_listing_images_listing_id"`
	URL       string    `gorm:"type:text;not null"`
	Position  int       `gorm:"not null;default:0"`
}

// TableName specifies the table name for the ListingImage model.
func (ListingImage) TableName() string {
	return "listing_images"
}

// ImageUpload carries one incoming image file from the transport layer.
type ImageUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// FailedUpload records one image that could not be stored.
type FailedUpload struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// UploadReport is the tagged outcome of an image reconciliation pass.
// Partial failure is an expected state, not an error.
type UploadReport struct {
	Uploaded []string       `json:"uploaded"`
	Failed   []FailedUpload `json:"failed"`
}

// --- DTOs ---

// CreateListingRequest is the metadata part of a listing creation request.
type CreateListingRequest struct {
	Title        string     `json:"title" binding:"required,max=255"`
	Description  *string    `json:"description,omitempty"`
	Price        float64    `json:"price" binding:"required,gt=0"`
	Currency     string     `json:"currency,omitempty" binding:"omitempty,len=3"`
	CategoryID   uuid.UUID  `json:"category_id" binding:"required"`
	CollectionID *uuid.UUID `json:"collection_id,omitempty"`
	Condition    Condition  `json:"condition" binding:"required,oneof=like-new good fair"`
	Status       Status     `json:"status,omitempty" binding:"omitempty,oneof=available negotiating sold"`
	Location     *string    `json:"location,omitempty" binding:"omitempty,max=255"`
}

// UpdateListingRequest is the metadata part of a listing edit request.
// RemovedImageURLs names existing images to detach; new files ride alongside
// in the multipart body.
type UpdateListingRequest struct {
	Title            *string    `json:"title,omitempty" binding:"omitempty,max=255"`
	Description      *string    `json:"description,omitempty"`
	Price            *float64   `json:"price,omitempty" binding:"omitempty,gt=0"`
	Currency         *string    `json:"currency,omitempty" binding:"omitempty,len=3"`
	CategoryID       *uuid.UUID `json:"category_id,omitempty"`
	CollectionID     *uuid.UUID `json:"collection_id,omitempty"`
	Condition        *Condition `json:"condition,omitempty" binding:"omitempty,oneof=like-new good fair"`
	Location         *string    `json:"location,omitempty" binding:"omitempty,max=255"`
	RemovedImageURLs []string   `json:"removed_image_urls,omitempty"`
}

// UpdateStatusRequest changes the selling lifecycle state.
type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=available negotiating sold"`
}

// BrowseQuery holds the public browse/search filters.
type BrowseQuery struct {
	SearchTerm   string
	CategorySlug string
	CollectionID *uuid.UUID
	Page         int
	PageSize     int
}

// ListingImageResponse defines image data sent in API responses.
type ListingImageResponse struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	Position int       `json:"position"`
}

// ListingResponse defines the structure for listing data sent in API responses.
type ListingResponse struct {
	ID           uuid.UUID                  `json:"id"`
	SellerID     uuid.UUID                  `json:"seller_id"`
	CategoryID   uuid.UUID                  `json:"category_id"`
	Category     *category.CategoryResponse `json:"category,omitempty"`
	CollectionID *uuid.UUID                 `json:"collection_id,omitempty"`
	Title        string                     `json:"title"`
	Description  *string                    `json:"description,omitempty"`
	Price        float64                    `json:"price"`
	Currency     string                     `json:"currency"`
	Condition    Condition                  `json:"condition"`
	Location     *string                    `json:"location,omitempty"`
	Status       Status                     `json:"status"`
	IsActive     bool                       `json:"is_active"`
	Images       []ListingImageResponse     `json:"images"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// ToListingResponse converts a Listing model to a ListingResponse DTO.
func ToListingResponse(l *Listing) ListingResponse {
	images := make([]ListingImageResponse, len(l.Images))
	for i, img := range l.Images {
		images[i] = ListingImageResponse{ID: img.ID, URL: img.URL, Position: img.Position}
	}

	resp := ListingResponse{
		ID:           l.ID,
		SellerID:     l.SellerID,
		CategoryID:   l.CategoryID,
		CollectionID: l.CollectionID,
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price,
		Currency:     l.Currency,
		Condition:    l.Condition,
		Location:     l.Location,
		Status:       l.Status,
		IsActive:     l.IsActive,
		Images:       images,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if l.Category.ID != uuid.Nil {
		cat := category.ToCategoryResponse(&l.Category)
		resp.Category = &cat
	}
	return resp
}

// CreateOrUpdateResult pairs the persisted listing with the image report so
// callers can see exactly which uploads made it.
type CreateOrUpdateResult struct {
	Listing *ListingResponse `json:"listing"`
	Images  *UploadReport    `json:"images,omitempty"`
}
