// File: internal/category/service.go
package category

import (
	"context"

	"giventake_backend/internal/common"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// SeedNames is the fixed category set for the marketplace.
var SeedNames = []string{
	"Textbooks",
	"Electronics",
	"Furniture",
	"Clothing",
	"Bikes & Transport",
	"Dorm Essentials",
	"Other",
}

// Service defines the interface for category-related business logic.
type Service interface {
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	GetAllCategories(ctx context.Context) ([]Category, error)
	Seed(ctx context.Context) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new category service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger,
	}
}

// Seed inserts the fixed category set, skipping names already present.
// Called at startup, so it must be idempotent.
func (s *service) Seed(ctx context.Context) error {
	for _, name := range SeedNames {
		categorySlug := slug.Make(name)
		if _, err := s.repo.FindBySlug(ctx, categorySlug); err == nil {
			continue
		}

		category := &Category{Name: name, Slug: categorySlug}
		if err := s.repo.Create(ctx, category); err != nil {
			if apiErr, ok := common.IsAPIError(err); ok && apiErr.StatusCode == common.ErrConflict.StatusCode {
				continue
			}
			s.logger.Error("Failed to seed category", zap.String("name", name), zap.Error(err))
			return err
		}
		s.logger.Info("Seeded category", zap.String("name", name), zap.String("slug", categorySlug))
	}
	return nil
}

func (s *service) GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetCategoryBySlug(ctx context.Context, slugToFind string) (*Category, error) {
	return s.repo.FindBySlug(ctx, slugToFind)
}

func (s *service) GetAllCategories(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to get all categories", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve categories.")
	}
	return categories, nil
}
