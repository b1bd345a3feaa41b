// File: internal/platform/database/migrate.go
package database

import (
	"giventake_backend/internal/collection"
	"giventake_backend/internal/listing"
	"giventake_backend/internal/user"
	"giventake_backend/internal/wishlist"

	categorypkg "giventake_backend/internal/category"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for all marketplace models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.Profile{},
		&categorypkg.Category{},
		&collection.Collection{},
		&listing.Listing{},
		&listing.ListingImage{},
		&wishlist.WishlistItem{},
	)
}
