// File: internal/listing/service.go
package listing

import (
	"context"
	"fmt"
	"strings"

	"giventake_backend/internal/category"
	"giventake_backend/internal/common"
	"giventake_backend/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for listing-related business logic.
// Every mutating operation takes the acting profile ID explicitly and checks
// ownership against a freshly loaded row before touching anything.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, req CreateListingRequest, uploads []ImageUpload) (*Listing, *UploadReport, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req UpdateListingRequest, uploads []ImageUpload) (*Listing, *UploadReport, error)
	UpdateStatus(ctx context.Context, actorID, id uuid.UUID, status Status) (*Listing, error)
	SoftDelete(ctx context.Context, actorID, id uuid.UUID) error
	HardDelete(ctx context.Context, actorID, id uuid.UUID) error
	Browse(ctx context.Context, query BrowseQuery) ([]Listing, *common.Pagination, error)
	MyListings(ctx context.Context, actorID uuid.UUID, page, pageSize int) ([]Listing, *common.Pagination, error)
	SweepOrphanedImages(ctx context.Context) (int, error)
}

type service struct {
	repo            Repository
	reconciler      Reconciler
	categoryService category.Service
	cfg             *config.Config
	logger          *zap.Logger
}

// NewService creates a new listing service.
func NewService(
	repo Repository,
	reconciler Reconciler,
	categoryService category.Service,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &service{
		repo:            repo,
		reconciler:      reconciler,
		categoryService: categoryService,
		cfg:             cfg,
		logger:          logger,
	}
}

// loadOwned fetches the listing and applies the ownership guard.
// Missing listing wins over authentication state: a 404 is returned before
// any 401/403.
func (s *service) loadOwned(ctx context.Context, actorID, id uuid.UUID) (*Listing, error) {
	listing, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := common.RequireOwner(actorID, listing.SellerID); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, req CreateListingRequest, uploads []ImageUpload) (*Listing, *UploadReport, error) {
	if actorID == uuid.Nil {
		return nil, nil, common.ErrUnauthorized.WithDetails("You must be signed in to create a listing.")
	}
	if _, err := s.categoryService.GetCategoryByID(ctx, req.CategoryID); err != nil {
		return nil, nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Category with ID %s not found.", req.CategoryID))
	}
	if len(uploads) > s.cfg.MaxImagesPerListing {
		return nil, nil, common.ErrBadRequest.WithDetails(
			fmt.Sprintf("A listing may have at most %d images.", s.cfg.MaxImagesPerListing))
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}
	status := req.Status
	if status == "" {
		status = StatusAvailable
	}

	newListing := &Listing{
		SellerID:     actorID,
		CategoryID:   req.CategoryID,
		CollectionID: req.CollectionID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Price:        req.Price,
		Currency:     currency,
		Condition:    req.Condition,
		Location:     req.Location,
		Status:       status,
		IsActive:     true,
	}

	// The row is the anchor: it is persisted before any upload is attempted,
	// and it survives even if every upload fails.
	if err := s.repo.Create(ctx, newListing); err != nil {
		s.logger.Error("Failed to create listing", zap.Error(err), zap.String("seller_id", actorID.String()))
		return nil, nil, err
	}

	report, err := s.reconciler.UploadAndRecord(ctx, newListing.ID, uploads)
	if err != nil {
		s.logger.Warn("Image reconciliation hit an error during create, listing kept",
			zap.String("listing_id", newListing.ID.String()),
			zap.Error(err),
		)
	}

	created, err := s.repo.FindByID(ctx, newListing.ID, true)
	if err != nil {
		return nil, report, err
	}
	s.logger.Info("Listing created",
		zap.String("listing_id", created.ID.String()),
		zap.String("seller_id", actorID.String()),
		zap.Int("images_uploaded", len(report.Uploaded)),
		zap.Int("images_failed", len(report.Failed)),
	)
	return created, report, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	listing, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, common.ErrNotFound.WithDetails("Listing not found.")
	}
	return listing, nil
}

func (s *service) Update(ctx context.Context, actorID, id uuid.UUID, req UpdateListingRequest, uploads []ImageUpload) (*Listing, *UploadReport, error) {
	listing, err := s.loadOwned(ctx, actorID, id)
	if err != nil {
		return nil, nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryService.GetCategoryByID(ctx, *req.CategoryID); err != nil {
			return nil, nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Category with ID %s not found.", *req.CategoryID))
		}
		listing.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		listing.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		listing.Description = req.Description
	}
	if req.Price != nil {
		listing.Price = *req.Price
	}
	if req.Currency != nil {
		listing.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.CollectionID != nil {
		listing.CollectionID = req.CollectionID
	}
	if req.Condition != nil {
		listing.Condition = *req.Condition
	}
	if req.Location != nil {
		listing.Location = req.Location
	}

	existingImages, err := s.repo.FindImagesByListingID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if len(existingImages)-len(req.RemovedImageURLs)+len(uploads) > s.cfg.MaxImagesPerListing {
		return nil, nil, common.ErrBadRequest.WithDetails(
			fmt.Sprintf("A listing may have at most %d images.", s.cfg.MaxImagesPerListing))
	}

	// Metadata lands first; the image pass that follows is tolerant of
	// partial failure, so a half-failed edit still leaves a consistent row.
	if err := s.repo.Update(ctx, listing); err != nil {
		s.logger.Error("Failed to update listing", zap.Error(err), zap.String("listing_id", id.String()))
		return nil, nil, err
	}

	report, recErr := s.reconciler.ReconcileOnEdit(ctx, id, req.RemovedImageURLs, uploads)
	if recErr != nil {
		s.logger.Warn("Image reconciliation hit an error during update, metadata kept",
			zap.String("listing_id", id.String()),
			zap.Error(recErr),
		)
	}

	updated, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, report, err
	}
	s.logger.Info("Listing updated", zap.String("listing_id", id.String()))
	return updated, report, nil
}

func (s *service) UpdateStatus(ctx context.Context, actorID, id uuid.UUID, status Status) (*Listing, error) {
	listing, err := s.loadOwned(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	listing.Status = status
	if err := s.repo.Update(ctx, listing); err != nil {
		s.logger.Error("Failed to update listing status", zap.Error(err), zap.String("listing_id", id.String()))
		return nil, err
	}

	s.logger.Info("Listing status updated",
		zap.String("listing_id", id.String()),
		zap.String("status", string(status)),
	)
	return s.repo.FindByID(ctx, id, true)
}

// SoftDelete hides the listing and clears its stored objects. Image rows are
// kept; the periodic sweep retires them once the listing is inactive.
func (s *service) SoftDelete(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actorID, id); err != nil {
		return err
	}

	if err := s.reconciler.CleanupStorageOnly(ctx, id); err != nil {
		s.logger.Warn("Storage cleanup failed during soft delete, continuing",
			zap.String("listing_id", id.String()),
			zap.Error(err),
		)
	}

	if err := s.repo.SetActive(ctx, id, false); err != nil {
		s.logger.Error("Failed to deactivate listing", zap.Error(err), zap.String("listing_id", id.String()))
		return err
	}
	s.logger.Info("Listing soft deleted", zap.String("listing_id", id.String()))
	return nil
}

// HardDelete removes the listing permanently: objects first, then image rows,
// then the listing row itself.
func (s *service) HardDelete(ctx context.Context, actorID, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actorID, id); err != nil {
		return err
	}

	if err := s.reconciler.CleanupAll(ctx, id); err != nil {
		s.logger.Error("Image cleanup failed during hard delete",
			zap.String("listing_id", id.String()),
			zap.Error(err),
		)
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete listing row", zap.Error(err), zap.String("listing_id", id.String()))
		return err
	}
	s.logger.Info("Listing hard deleted", zap.String("listing_id", id.String()))
	return nil
}

func (s *service) Browse(ctx context.Context, query BrowseQuery) ([]Listing, *common.Pagination, error) {
	listings, totalItems, err := s.repo.FindAll(ctx, SearchQuery{
		SearchTerm:   query.SearchTerm,
		CategorySlug: query.CategorySlug,
		CollectionID: query.CollectionID,
		Page:         query.Page,
		PageSize:     query.PageSize,
	})
	if err != nil {
		s.logger.Error("Failed to browse listings", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve listings.")
	}
	return listings, common.NewPagination(totalItems, query.Page, query.PageSize), nil
}

func (s *service) MyListings(ctx context.Context, actorID uuid.UUID, page, pageSize int) ([]Listing, *common.Pagination, error) {
	if actorID == uuid.Nil {
		return nil, nil, common.ErrUnauthorized.WithDetails("You must be signed in to view your listings.")
	}
	listings, totalItems, err := s.repo.FindAll(ctx, SearchQuery{
		SellerID:    &actorID,
		IncludeSold: true,
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		s.logger.Error("Failed to fetch seller listings", zap.Error(err), zap.String("seller_id", actorID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve your listings.")
	}
	return listings, common.NewPagination(totalItems, page, pageSize), nil
}

// SweepOrphanedImages is the periodic repair pass. It retires image rows that
// no longer have an active listing and deletes stored objects whose listing
// is gone or inactive.
func (s *service) SweepOrphanedImages(ctx context.Context) (int, error) {
	removedRows, err := s.repo.DeleteImageRowsWithoutActiveListing(ctx)
	if err != nil {
		return 0, err
	}

	activeIDs, err := s.repo.FindActiveListingIDs(ctx)
	if err != nil {
		return int(removedRows), err
	}
	active := make(map[uuid.UUID]struct{}, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = struct{}{}
	}

	removedObjects, err := s.reconciler.SweepOrphanedObjects(ctx, active)
	if err != nil {
		return int(removedRows), err
	}

	s.logger.Info("Image sweep completed",
		zap.Int64("rows_removed", removedRows),
		zap.Int("objects_removed", removedObjects),
	)
	return int(removedRows) + removedObjects, nil
}
