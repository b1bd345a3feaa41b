// File: internal/category/model.go
package category

import (
	"time"

	"giventake_backend/internal/common"

	"github.com/google/uuid"
)

// Category represents the category model in the database.
// The set is fixed and seeded at startup; there is no admin CRUD surface.
type Category struct {
	common.BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_name,unique"`
	Slug string `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_slug,unique"`
}

// TableName specifies the table name for the Category model.
func (Category) TableName() string {
	return "categories"
}

// --- DTOs ---

// CategoryResponse defines the structure for category data sent in API responses.
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a Category model to a CategoryResponse DTO.
func ToCategoryResponse(category *Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Slug:      category.Slug,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}
