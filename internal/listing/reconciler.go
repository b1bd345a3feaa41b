// File: internal/listing/reconciler.go
package listing

import (
	"context"
	"fmt"
	"path"
	"strings"

	"giventake_backend/internal/common"
	"giventake_backend/internal/platform/objectstorage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StoragePrefix is the root of all listing image object keys.
const StoragePrefix = "listings/"

// Reconciler keeps the object storage bucket and the listing_images table in
// step. Every operation treats per-image failure as an expected state: one
// bad file never blocks the others, and outcomes are reported per image.
type Reconciler interface {
	// UploadAndRecord stores each upload and records a row for it.
	UploadAndRecord(ctx context.Context, listingID uuid.UUID, uploads []ImageUpload) (*UploadReport, error)
	// Remove deletes the named images, object first, row second.
	Remove(ctx context.Context, listingID uuid.UUID, urls []string) error
	// ReconcileOnEdit applies removals before additions so an edit that swaps
	// images never exceeds the image cap transiently.
	ReconcileOnEdit(ctx context.Context, listingID uuid.UUID, removedURLs []string, added []ImageUpload) (*UploadReport, error)
	// CleanupAll removes every object, then every row, for a listing.
	CleanupAll(ctx context.Context, listingID uuid.UUID) error
	// CleanupStorageOnly removes objects under the listing prefix but keeps
	// image rows, matching soft delete semantics. The sweep retires the rows.
	CleanupStorageOnly(ctx context.Context, listingID uuid.UUID) error
	// SweepOrphanedObjects deletes every stored object whose listing is not
	// in the given active set. Returns the number of objects removed.
	SweepOrphanedObjects(ctx context.Context, activeListingIDs map[uuid.UUID]struct{}) (int, error)
}

type storageReconciler struct {
	storage objectstorage.Service
	repo    Repository
	logger  *zap.Logger
}

// NewReconciler creates the image asset reconciler.
func NewReconciler(storage objectstorage.Service, repo Repository, logger *zap.Logger) Reconciler {
	return &storageReconciler{
		storage: storage,
		repo:    repo,
		logger:  logger,
	}
}

func objectKey(listingID uuid.UUID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s%s/%s%s", StoragePrefix, listingID, uuid.New(), ext)
}

func (r *storageReconciler) UploadAndRecord(ctx context.Context, listingID uuid.UUID, uploads []ImageUpload) (*UploadReport, error) {
	report := &UploadReport{Uploaded: []string{}, Failed: []FailedUpload{}}

	existing, err := r.repo.FindImagesByListingID(ctx, listingID)
	if err != nil {
		return report, err
	}
	position := len(existing)

	for _, upload := range uploads {
		key := objectKey(listingID, upload.FileName)

		url, err := r.storage.Put(ctx, key, upload.Data, upload.ContentType)
		if err != nil {
			r.logger.Warn("Image upload failed, continuing with remaining files",
				zap.String("listing_id", listingID.String()),
				zap.String("file_name", upload.FileName),
				zap.Error(err),
			)
			report.Failed = append(report.Failed, FailedUpload{FileName: upload.FileName, Reason: "upload failed"})
			continue
		}

		image := &ListingImage{
			ListingID: listingID,
			URL:       url,
			Position:  position,
		}
		if err := r.repo.InsertImage(ctx, image); err != nil {
			r.logger.Error("Image row insert failed after upload, removing object",
				zap.String("listing_id", listingID.String()),
				zap.String("key", key),
				zap.Error(err),
			)
			if delErr := r.storage.Delete(ctx, key); delErr != nil {
				r.logger.Warn("Orphaned object left for sweep", zap.String("key", key), zap.Error(delErr))
			}
			report.Failed = append(report.Failed, FailedUpload{FileName: upload.FileName, Reason: "record failed"})
			continue
		}

		report.Uploaded = append(report.Uploaded, url)
		position++
	}

	return report, nil
}

func (r *storageReconciler) Remove(ctx context.Context, listingID uuid.UUID, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	var failed int
	for _, url := range urls {
		key := r.storage.KeyFromURL(url)
		if key == "" {
			r.logger.Warn("Skipping image URL outside managed bucket",
				zap.String("listing_id", listingID.String()),
				zap.String("url", url),
			)
			failed++
			continue
		}

		// Object first. If the object cannot be removed, the row stays so the
		// image remains visible instead of dangling.
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Warn("Image object removal failed, keeping row",
				zap.String("listing_id", listingID.String()),
				zap.String("key", key),
				zap.Error(err),
			)
			failed++
			continue
		}

		if err := r.repo.DeleteImageByURL(ctx, listingID, url); err != nil {
			if apiErr, ok := common.IsAPIError(err); !ok || apiErr.StatusCode != common.ErrNotFound.StatusCode {
				r.logger.Error("Image row removal failed after object deletion",
					zap.String("listing_id", listingID.String()),
					zap.String("url", url),
					zap.Error(err),
				)
				failed++
			}
		}
	}

	if failed == len(urls) {
		return common.ErrStorage.WithDetails("None of the requested images could be removed.")
	}
	return nil
}

func (r *storageReconciler) ReconcileOnEdit(ctx context.Context, listingID uuid.UUID, removedURLs []string, added []ImageUpload) (*UploadReport, error) {
	if err := r.Remove(ctx, listingID, removedURLs); err != nil {
		return &UploadReport{Uploaded: []string{}, Failed: []FailedUpload{}}, err
	}
	return r.UploadAndRecord(ctx, listingID, added)
}

func (r *storageReconciler) CleanupAll(ctx context.Context, listingID uuid.UUID) error {
	if err := r.CleanupStorageOnly(ctx, listingID); err != nil {
		return err
	}
	return r.repo.DeleteImagesByListingID(ctx, listingID)
}

func (r *storageReconciler) CleanupStorageOnly(ctx context.Context, listingID uuid.UUID) error {
	prefix := fmt.Sprintf("%s%s/", StoragePrefix, listingID)
	keys, err := r.storage.ListKeys(ctx, prefix)
	if err != nil {
		r.logger.Error("Failed to list objects for cleanup",
			zap.String("listing_id", listingID.String()),
			zap.Error(err),
		)
		return common.ErrStorage.WithDetails("Could not enumerate stored images for this listing.")
	}

	for _, key := range keys {
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Warn("Object removal failed during cleanup, sweep will retry",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (r *storageReconciler) SweepOrphanedObjects(ctx context.Context, activeListingIDs map[uuid.UUID]struct{}) (int, error) {
	keys, err := r.storage.ListKeys(ctx, StoragePrefix)
	if err != nil {
		return 0, common.ErrStorage.WithDetails("Could not enumerate stored listing images.")
	}

	removed := 0
	for _, key := range keys {
		rest := strings.TrimPrefix(key, StoragePrefix)
		idPart, _, found := strings.Cut(rest, "/")
		if !found {
			continue
		}
		listingID, err := uuid.Parse(idPart)
		if err != nil {
			continue
		}
		if _, ok := activeListingIDs[listingID]; ok {
			continue
		}
		if err := r.storage.Delete(ctx, key); err != nil {
			r.logger.Warn("Sweep could not remove orphaned object", zap.String("key", key), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}
