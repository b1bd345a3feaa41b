// File: internal/collection/service_test.go
package collection

import (
	"context"
	"testing"

	"giventake_backend/internal/common"
	"giventake_backend/internal/listing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock type for collection.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, collection *Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Collection), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context) ([]Collection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Collection), args.Error(1)
}

func (m *MockRepository) FindAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]Collection, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Collection), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, collection *Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockListingService is a mock type for listing.Service
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Create(ctx context.Context, actorID uuid.UUID, req listing.CreateListingRequest, uploads []listing.ImageUpload) (*listing.Listing, *listing.UploadReport, error) {
	args := m.Called(ctx, actorID, req, uploads)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*listing.Listing), args.Get(1).(*listing.UploadReport), args.Error(2)
}

func (m *MockListingService) GetByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingService) Update(ctx context.Context, actorID, id uuid.UUID, req listing.UpdateListingRequest, uploads []listing.ImageUpload) (*listing.Listing, *listing.UploadReport, error) {
	args := m.Called(ctx, actorID, id, req, uploads)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*listing.Listing), args.Get(1).(*listing.UploadReport), args.Error(2)
}

func (m *MockListingService) UpdateStatus(ctx context.Context, actorID, id uuid.UUID, status listing.Status) (*listing.Listing, error) {
	args := m.Called(ctx, actorID, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingService) SoftDelete(ctx context.Context, actorID, id uuid.UUID) error {
	args := m.Called(ctx, actorID, id)
	return args.Error(0)
}

func (m *MockListingService) HardDelete(ctx context.Context, actorID, id uuid.UUID) error {
	args := m.Called(ctx, actorID, id)
	return args.Error(0)
}

func (m *MockListingService) Browse(ctx context.Context, query listing.BrowseQuery) ([]listing.Listing, *common.Pagination, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]listing.Listing), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockListingService) MyListings(ctx context.Context, actorID uuid.UUID, page, pageSize int) ([]listing.Listing, *common.Pagination, error) {
	args := m.Called(ctx, actorID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]listing.Listing), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockListingService) SweepOrphanedImages(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newServiceTest() (*MockRepository, *MockListingService, Service) {
	repo := new(MockRepository)
	listings := new(MockListingService)
	svc := NewService(repo, listings, zap.NewNop())
	return repo, listings, svc
}

func TestGetAllReturnsEveryCollection(t *testing.T) {
	repo, _, svc := newServiceTest()
	ctx := context.Background()

	repo.On("FindAll", ctx).Return([]Collection{
		{OwnerID: uuid.New(), Name: "Dorm gear"},
		{OwnerID: uuid.New(), Name: "Moving out sale"},
	}, nil)

	collections, err := svc.GetAll(ctx)

	require.NoError(t, err)
	assert.Len(t, collections, 2)
	repo.AssertExpectations(t)
}

func TestGetListingsScopesBrowseToCollection(t *testing.T) {
	repo, listings, svc := newServiceTest()
	ctx := context.Background()
	collectionID := uuid.New()

	repo.On("FindByID", ctx, collectionID).Return(&Collection{OwnerID: uuid.New(), Name: "Dorm gear"}, nil)
	listings.On("Browse", ctx, mock.MatchedBy(func(q listing.BrowseQuery) bool {
		return q.CollectionID != nil && *q.CollectionID == collectionID && q.Page == 2 && q.PageSize == 5
	})).Return([]listing.Listing{{Title: "Bookshelf"}}, common.NewPagination(1, 2, 5), nil)

	results, pagination, err := svc.GetListings(ctx, collectionID, 2, 5)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Bookshelf", results[0].Title)
	assert.NotNil(t, pagination)
	listings.AssertExpectations(t)
}

func TestGetListingsMissingCollectionIsNotFound(t *testing.T) {
	repo, listings, svc := newServiceTest()
	ctx := context.Background()
	collectionID := uuid.New()

	repo.On("FindByID", ctx, collectionID).Return(nil, common.ErrNotFound.WithDetails("Collection not found."))

	_, _, err := svc.GetListings(ctx, collectionID, 1, 10)

	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrNotFound.StatusCode, apiErr.StatusCode)
	listings.AssertNotCalled(t, "Browse", mock.Anything, mock.Anything)
}

func TestDeleteRejectsNonOwner(t *testing.T) {
	repo, _, svc := newServiceTest()
	ctx := context.Background()
	collectionID := uuid.New()

	repo.On("FindByID", ctx, collectionID).Return(&Collection{OwnerID: uuid.New(), Name: "Not yours"}, nil)

	err := svc.Delete(ctx, uuid.New(), collectionID)

	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrForbidden.StatusCode, apiErr.StatusCode)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
