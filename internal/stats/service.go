// File: internal/stats/service.go
package stats

import (
	"context"

	"giventake_backend/internal/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Overview holds marketplace-wide row counts.
type Overview struct {
	Profiles      int64 `json:"profiles"`
	Categories    int64 `json:"categories"`
	Listings      int64 `json:"listings"`
	ListingImages int64 `json:"listing_images"`
	Collections   int64 `json:"collections"`
	WishlistItems int64 `json:"wishlist_items"`
}

// Service defines the interface for marketplace statistics.
type Service interface {
	GetOverview(ctx context.Context) (*Overview, error)
}

type service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new stats service.
func NewService(db *gorm.DB, logger *zap.Logger) Service {
	return &service{
		db:     db,
		logger: logger,
	}
}

func (s *service) GetOverview(ctx context.Context) (*Overview, error) {
	overview := &Overview{}

	counts := []struct {
		table string
		dest  *int64
	}{
		{"profiles", &overview.Profiles},
		{"categories", &overview.Categories},
		{"listings", &overview.Listings},
		{"listing_images", &overview.ListingImages},
		{"collections", &overview.Collections},
		{"wishlist_items", &overview.WishlistItems},
	}

	for _, c := range counts {
		if err := s.db.WithContext(ctx).Table(c.table).Count(c.dest).Error; err != nil {
			s.logger.Error("Failed to count table rows", zap.String("table", c.table), zap.Error(err))
			return nil, common.ErrInternalServer.WithDetails("Could not compute marketplace statistics.")
		}
	}

	return overview, nil
}
