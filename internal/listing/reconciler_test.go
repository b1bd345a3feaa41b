// File: internal/listing/reconciler_test.go
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"giventake_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockObjectStorage is a mock type for objectstorage.Service
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockObjectStorage) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockObjectStorage) KeyFromURL(url string) string {
	args := m.Called(url)
	return args.String(0)
}

func newReconcilerTest() (*MockObjectStorage, *MockRepository, Reconciler) {
	storage := new(MockObjectStorage)
	repo := new(MockRepository)
	return storage, repo, NewReconciler(storage, repo, zap.NewNop())
}

func TestUploadAndRecordIsolatesPerFileFailures(t *testing.T) {
	storage, repo, reconciler := newReconcilerTest()
	listingID := uuid.New()

	repo.On("FindImagesByListingID", mock.Anything, listingID).Return([]ListingImage{}, nil)
	storage.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasSuffix(key, ".jpg")
	}), mock.Anything, mock.Anything).Return("", errors.New("connection reset"))
	storage.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasSuffix(key, ".png")
	}), mock.Anything, mock.Anything).Return("http://store/listing-images/good.png", nil)
	repo.On("InsertImage", mock.Anything, mock.AnythingOfType("*listing.ListingImage")).Return(nil)

	report, err := reconciler.UploadAndRecord(context.Background(), listingID, []ImageUpload{
		{FileName: "broken.jpg", Data: []byte("x")},
		{FileName: "good.png", Data: []byte("y")},
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"http://store/listing-images/good.png"}, report.Uploaded)
	assert.Len(t, report.Failed, 1)
	assert.Equal(t, "broken.jpg", report.Failed[0].FileName)
	assert.Equal(t, "upload failed", report.Failed[0].Reason)
}

func TestUploadAndRecordRemovesObjectWhenRowInsertFails(t *testing.T) {
	storage, repo, reconciler := newReconcilerTest()
	listingID := uuid.New()

	repo.On("FindImagesByListingID", mock.Anything, listingID).Return([]ListingImage{}, nil)
	storage.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("http://store/listing-images/photo.jpg", nil)
	repo.On("InsertImage", mock.Anything, mock.Anything).Return(errors.New("db down"))
	storage.On("Delete", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, fmt.Sprintf("%s%s/", StoragePrefix, listingID))
	})).Return(nil)

	report, err := reconciler.UploadAndRecord(context.Background(), listingID, []ImageUpload{
		{FileName: "photo.jpg", Data: []byte("x")},
	})

	assert.NoError(t, err)
	assert.Empty(t, report.Uploaded)
	assert.Len(t, report.Failed, 1)
	assert.Equal(t, "record failed", report.Failed[0].Reason)
	storage.AssertCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestUploadAndRecordContinuesPositionsFromExistingImages(t *testing.T) {
	storage, repo, reconciler := newReconcilerTest()
	listingID := uuid.New()

	repo.On("FindImagesByListingID", mock.Anything, listingID).
		Return([]ListingImage{{Position: 0}, {Position: 1}}, nil)
	storage.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("http://store/listing-images/third.jpg", nil)
	repo.On("InsertImage", mock.Anything, mock.MatchedBy(func(img *ListingImage) bool {
		return img.Position == 2
	})).Return(nil)

	report, err := reconciler.UploadAndRecord(context.Background(), listingID, []ImageUpload{
		{FileName: "third.jpg", Data: []byte("x")},
	})

	assert.NoError(t, err)
	assert.Len(t, report.Uploaded, 1)
	repo.AssertExpectations(t)
}

func TestRemoveDeletesObjectBeforeRow(t *testing.T) {
	storage, repo, reconciler := newReconcilerTest()
	listingID := uuid.New()
	url := "http://store/listing-images/listings/x/img.jpg"
	key := "listings/x/img.jpg"

	var callOrder []string
	storage.On("KeyFromURL", url).Return(key)
	storage.On("Delete", mock.Anything, key).
		Run(func(mock.Arguments) { callOrder = append(callOrder, "object") }).
		Return(nil)
	repo.On("DeleteImageByURL", mock.Anything, listingID, url).
		Run(func(mock.Arguments) { callOrder = append(callOrder, "row") }).
		Return(nil)

	err := reconciler.Remove(context.Background(), listingID, []string{url})

	assert.NoError(t, err)
	assert.Equal(t, []string{"object", "row"}, callOrder)
}

func TestRemoveKeepsRowWhenObjectDeletionFails(t *testing.T) {
	storage, repo, reconciler := newReconcilerTest()
	listingID := uuid.New()
	url := "http://store/listing-images/listings/x/img.jpg"

	storage.On("KeyFromURL", url).Return("listings/x/img.jpg")
	storage.On("Delete", mock.Anything, mock.Anything).Return(errors.New("timeout"))

	err := reconciler.Remove(context.Background(), listingID, []string{url})

	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrStorage.StatusCode, apiErr.StatusCode)
	repo.AssertNotCalled(t, "DeleteImageByURL", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveSucceedsWhenOnlySomeImagesFail(t *testing.T) {
	storage, repo, reconciler := newReconcilerTest()
	listingID := uuid.New()
	goodURL := "http://store/listing-images/listings/x/good.jpg"
	badURL := "http://elsewhere/not-ours.jpg"

	storage.On("KeyFromURL", goodURL).Return("listings/x/good.jpg")
	storage.On("KeyFromURL", badURL).Return("")
	storage.On("Delete", mock.Anything, "listings/x/good.jpg").Return(nil)
	repo.On("DeleteImageByURL", mock.Anything, listingID, goodURL).Return(nil)

	err := reconciler.Remove(context.Background(), listingID, []string{goodURL, badURL})

	assert.NoError(t, err)
}

func TestRemoveToleratesMissingImageRow(t *testing.T) {
	storage, repo, reconciler := newReconcilerTest()
	listingID := uuid.New()
	url := "http://store/listing-images/listings/x/img.jpg"

	storage.On("KeyFromURL", url).Return("listings/x/img.jpg")
	storage.On("Delete", mock.Anything, mock.Anything).Return(nil)
	repo.On("DeleteImageByURL", mock.Anything, listingID, url).
		Return(common.ErrNotFound.WithDetails("Image not found."))

	err := reconciler.Remove(context.Background(), listingID, []string{url})

	assert.NoError(t, err)
}

func TestReconcileOnEditRemovesBeforeAdding(t *testing.T) {
	storage, repo, reconciler := newReconcilerTest()
	listingID := uuid.New()
	removedURL := "http://store/listing-images/listings/x/old.jpg"

	var callOrder []string
	storage.On("KeyFromURL", removedURL).Return("listings/x/old.jpg")
	storage.On("Delete", mock.Anything, "listings/x/old.jpg").
		Run(func(mock.Arguments) { callOrder = append(callOrder, "remove") }).
		Return(nil)
	repo.On("DeleteImageByURL", mock.Anything, listingID, removedURL).Return(nil)
	repo.On("FindImagesByListingID", mock.Anything, listingID).Return([]ListingImage{}, nil)
	storage.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { callOrder = append(callOrder, "add") }).
		Return("http://store/listing-images/new.jpg", nil)
	repo.On("InsertImage", mock.Anything, mock.Anything).Return(nil)

	report, err := reconciler.ReconcileOnEdit(context.Background(), listingID, []string{removedURL}, []ImageUpload{
		{FileName: "new.jpg", Data: []byte("x")},
	})

	assert.NoError(t, err)
	assert.Len(t, report.Uploaded, 1)
	assert.Equal(t, []string{"remove", "add"}, callOrder)
}

func TestCleanupAllDeletesObjectsThenRows(t *testing.T) {
	storage, repo, reconciler := newReconcilerTest()
	listingID := uuid.New()
	prefix := fmt.Sprintf("%s%s/", StoragePrefix, listingID)

	var callOrder []string
	storage.On("ListKeys", mock.Anything, prefix).Return([]string{prefix + "a.jpg", prefix + "b.jpg"}, nil)
	storage.On("Delete", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { callOrder = append(callOrder, "object") }).
		Return(nil)
	repo.On("DeleteImagesByListingID", mock.Anything, listingID).
		Run(func(mock.Arguments) { callOrder = append(callOrder, "rows") }).
		Return(nil)

	err := reconciler.CleanupAll(context.Background(), listingID)

	assert.NoError(t, err)
	assert.Equal(t, []string{"object", "object", "rows"}, callOrder)
}

func TestCleanupStorageOnlyLeavesRowsAlone(t *testing.T) {
	storage, repo, reconciler := newReconcilerTest()
	listingID := uuid.New()
	prefix := fmt.Sprintf("%s%s/", StoragePrefix, listingID)

	storage.On("ListKeys", mock.Anything, prefix).Return([]string{prefix + "a.jpg"}, nil)
	storage.On("Delete", mock.Anything, prefix+"a.jpg").Return(nil)

	err := reconciler.CleanupStorageOnly(context.Background(), listingID)

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "DeleteImagesByListingID", mock.Anything, mock.Anything)
}

func TestSweepOrphanedObjectsKeepsActiveListings(t *testing.T) {
	storage, _, reconciler := newReconcilerTest()
	activeID := uuid.New()
	orphanID := uuid.New()

	activeKey := fmt.Sprintf("%s%s/keep.jpg", StoragePrefix, activeID)
	orphanKey := fmt.Sprintf("%s%s/drop.jpg", StoragePrefix, orphanID)
	strayKey := StoragePrefix + "not-a-uuid/drop.jpg"

	storage.On("ListKeys", mock.Anything, StoragePrefix).
		Return([]string{activeKey, orphanKey, strayKey}, nil)
	storage.On("Delete", mock.Anything, orphanKey).Return(nil)

	removed, err := reconciler.SweepOrphanedObjects(context.Background(),
		map[uuid.UUID]struct{}{activeID: {}})

	assert.NoError(t, err)
	assert.Equal(t, 1, removed)
	storage.AssertNotCalled(t, "Delete", mock.Anything, activeKey)
	storage.AssertNotCalled(t, "Delete", mock.Anything, strayKey)
}
