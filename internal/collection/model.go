// File: internal/collection/model.go
package collection

import (
	"time"

	"giventake_backend/internal/common"

	"github.com/google/uuid"
)

// Collection represents a seller-curated group of listings.
type Collection struct {
	common.BaseModel
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index:idx_collections_owner_id"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Description *string   `gorm:"type:text"`
}

// TableName specifies the table name for the Collection model.
func (Collection) TableName() string {
	return "collections"
}

// --- DTOs ---

// CollectionResponse defines the structure for collection data sent in API responses.
type CollectionResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCollectionResponse converts a Collection model to a CollectionResponse DTO.
func ToCollectionResponse(collection *Collection) CollectionResponse {
	return CollectionResponse{
		ID:          collection.ID,
		OwnerID:     collection.OwnerID,
		Name:        collection.Name,
		Description: collection.Description,
		CreatedAt:   collection.CreatedAt,
		UpdatedAt:   collection.UpdatedAt,
	}
}

// CreateCollectionRequest for creating collections.
type CreateCollectionRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description,omitempty"`
}

// UpdateCollectionRequest for renaming or redescribing collections.
type UpdateCollectionRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string `json:"description,omitempty"`
}
