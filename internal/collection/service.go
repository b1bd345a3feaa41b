// File: internal/collection/service.go
package collection

import (
	"context"
	"strings"

	"giventake_backend/internal/common"
	"giventake_backend/internal/listing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for collection-related business logic.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, req CreateCollectionRequest) (*Collection, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Collection, error)
	GetAll(ctx context.Context) ([]Collection, error)
	GetMine(ctx context.Context, actorID uuid.UUID) ([]Collection, error)
	GetListings(ctx context.Context, id uuid.UUID, page, pageSize int) ([]listing.Listing, *common.Pagination, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req UpdateCollectionRequest) (*Collection, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type service struct {
	repo     Repository
	listings listing.Service
	logger   *zap.Logger
}

// NewService creates a new collection service.
func NewService(repo Repository, listings listing.Service, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		listings: listings,
		logger:   logger,
	}
}

func (s *service) loadOwned(ctx context.Context, actorID, id uuid.UUID) (*Collection, error) {
	collection, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := common.RequireOwner(actorID, collection.OwnerID); err != nil {
		return nil, err
	}
	return collection, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, req CreateCollectionRequest) (*Collection, error) {
	if actorID == uuid.Nil {
		return nil, common.ErrUnauthorized.WithDetails("You must be signed in to create a collection.")
	}

	collection := &Collection{
		OwnerID:     actorID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, collection); err != nil {
		s.logger.Error("Failed to create collection", zap.Error(err), zap.String("owner_id", actorID.String()))
		return nil, err
	}
	s.logger.Info("Collection created",
		zap.String("collection_id", collection.ID.String()),
		zap.String("owner_id", actorID.String()),
	)
	return collection, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Collection, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetAll(ctx context.Context) ([]Collection, error) {
	return s.repo.FindAll(ctx)
}

// GetListings returns the browsable listings grouped under a collection. The
// collection is looked up first so a bad ID reads as not-found rather than an
// empty page.
func (s *service) GetListings(ctx context.Context, id uuid.UUID, page, pageSize int) ([]listing.Listing, *common.Pagination, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, nil, err
	}
	return s.listings.Browse(ctx, listing.BrowseQuery{
		CollectionID: &id,
		Page:         page,
		PageSize:     pageSize,
	})
}

func (s *service) GetMine(ctx context.Context, actorID uuid.UUID) ([]Collection, error) {
	if actorID == uuid.Nil {
		return nil, common.ErrUnauthorized.WithDetails("You must be signed in to view your collections.")
	}
	return s.repo.FindAllByOwner(ctx, actorID)
}

func (s *service) Update(ctx context.Context, actorID, id uuid.UUID, req UpdateCollectionRequest) (*Collection, error) {
	collection, err := s.loadOwned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		collection.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		collection.Description = req.Description
	}

	if err := s.repo.Update(ctx, collection); err != nil {
		s.logger.Error("Failed to update collection", zap.Error(err), zap.String("collection_id", id.String()))
		return nil, err
	}
	s.logger.Info("Collection updated", zap.String("collection_id", id.String()))
	return collection, nil
}

// Delete removes the collection. Listings that referenced it are detached,
// never deleted.
func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actorID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete collection", zap.Error(err), zap.String("collection_id", id.String()))
		return err
	}
	s.logger.Info("Collection deleted", zap.String("collection_id", id.String()))
	return nil
}
