// File: internal/wishlist/service.go
package wishlist

import (
	"context"
	"fmt"
	"strings"

	"giventake_backend/internal/category"
	"giventake_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for wishlist-related business logic.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, req CreateWishlistItemRequest) (*WishlistItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*WishlistItem, error)
	Browse(ctx context.Context, query BrowseQuery) ([]WishlistItem, *common.Pagination, error)
	GetMine(ctx context.Context, actorID uuid.UUID, page, pageSize int) ([]WishlistItem, *common.Pagination, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req UpdateWishlistItemRequest) (*WishlistItem, error)
	MarkFulfilled(ctx context.Context, actorID, id uuid.UUID) (*WishlistItem, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type service struct {
	repo            Repository
	categoryService category.Service
	logger          *zap.Logger
}

// NewService creates a new wishlist service.
func NewService(repo Repository, categoryService category.Service, logger *zap.Logger) Service {
	return &service{
		repo:            repo,
		categoryService: categoryService,
		logger:          logger,
	}
}

func (s *service) loadOwned(ctx context.Context, actorID, id uuid.UUID) (*WishlistItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := common.RequireOwner(actorID, item.RequesterID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, req CreateWishlistItemRequest) (*WishlistItem, error) {
	if actorID == uuid.Nil {
		return nil, common.ErrUnauthorized.WithDetails("You must be signed in to post a wanted item.")
	}
	if _, err := s.categoryService.GetCategoryByID(ctx, req.CategoryID); err != nil {
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Category with ID %s not found.", req.CategoryID))
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	item := &WishlistItem{
		RequesterID: actorID,
		CategoryID:  req.CategoryID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Budget:      req.Budget,
		Currency:    currency,
		Condition:   req.Condition,
		Location:    req.Location,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.Error("Failed to create wishlist item", zap.Error(err), zap.String("requester_id", actorID.String()))
		return nil, err
	}

	s.logger.Info("Wishlist item created",
		zap.String("item_id", item.ID.String()),
		zap.String("requester_id", actorID.String()),
	)
	return s.repo.FindByID(ctx, item.ID)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*WishlistItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.IsActive {
		return nil, common.ErrNotFound.WithDetails("Wishlist item not found.")
	}
	return item, nil
}

func (s *service) Browse(ctx context.Context, query BrowseQuery) ([]WishlistItem, *common.Pagination, error) {
	items, totalItems, err := s.repo.FindAll(ctx, SearchQuery{
		SearchTerm:   query.SearchTerm,
		CategorySlug: query.CategorySlug,
		Page:         query.Page,
		PageSize:     query.PageSize,
	})
	if err != nil {
		s.logger.Error("Failed to browse wishlist items", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve wishlist items.")
	}
	return items, common.NewPagination(totalItems, query.Page, query.PageSize), nil
}

func (s *service) GetMine(ctx context.Context, actorID uuid.UUID, page, pageSize int) ([]WishlistItem, *common.Pagination, error) {
	if actorID == uuid.Nil {
		return nil, nil, common.ErrUnauthorized.WithDetails("You must be signed in to view your wishlist.")
	}
	items, totalItems, err := s.repo.FindAll(ctx, SearchQuery{
		RequesterID:     &actorID,
		IncludeInactive: true,
		Page:            page,
		PageSize:        pageSize,
	})
	if err != nil {
		s.logger.Error("Failed to fetch wishlist items", zap.Error(err), zap.String("requester_id", actorID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve your wishlist.")
	}
	return items, common.NewPagination(totalItems, page, pageSize), nil
}

func (s *service) Update(ctx context.Context, actorID, id uuid.UUID, req UpdateWishlistItemRequest) (*WishlistItem, error) {
	item, err := s.loadOwned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryService.GetCategoryByID(ctx, *req.CategoryID); err != nil {
			return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Category with ID %s not found.", *req.CategoryID))
		}
		item.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Budget != nil {
		item.Budget = req.Budget
	}
	if req.Currency != nil {
		item.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.Condition != nil {
		item.Condition = req.Condition
	}
	if req.Location != nil {
		item.Location = req.Location
	}

	if err := s.repo.Update(ctx, item); err != nil {
		s.logger.Error("Failed to update wishlist item", zap.Error(err), zap.String("item_id", id.String()))
		return nil, err
	}
	s.logger.Info("Wishlist item updated", zap.String("item_id", id.String()))
	return s.repo.FindByID(ctx, id)
}

// MarkFulfilled deactivates a wanted post once the requester has found the
// item. The row is kept for the requester's own history.
func (s *service) MarkFulfilled(ctx context.Context, actorID, id uuid.UUID) (*WishlistItem, error) {
	item, err := s.loadOwned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	item.IsActive = false
	if err := s.repo.Update(ctx, item); err != nil {
		s.logger.Error("Failed to mark wishlist item fulfilled", zap.Error(err), zap.String("item_id", id.String()))
		return nil, err
	}
	s.logger.Info("Wishlist item marked fulfilled", zap.String("item_id", id.String()))
	return item, nil
}

func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actorID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete wishlist item", zap.Error(err), zap.String("item_id", id.String()))
		return err
	}
	s.logger.Info("Wishlist item deleted", zap.String("item_id", id.String()))
	return nil
}
