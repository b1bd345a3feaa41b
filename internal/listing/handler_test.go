// File: internal/listing/handler_test.go
package listing

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"giventake_backend/internal/common"
	"giventake_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockService is a mock type for listing.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, actorID uuid.UUID, req CreateListingRequest, uploads []ImageUpload) (*Listing, *UploadReport, error) {
	args := m.Called(ctx, actorID, req, uploads)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*Listing), args.Get(1).(*UploadReport), args.Error(2)
}

func (m *MockService) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Listing), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, actorID, id uuid.UUID, req UpdateListingRequest, uploads []ImageUpload) (*Listing, *UploadReport, error) {
	args := m.Called(ctx, actorID, id, req, uploads)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*Listing), args.Get(1).(*UploadReport), args.Error(2)
}

func (m *MockService) UpdateStatus(ctx context.Context, actorID, id uuid.UUID, status Status) (*Listing, error) {
	args := m.Called(ctx, actorID, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Listing), args.Error(1)
}

func (m *MockService) SoftDelete(ctx context.Context, actorID, id uuid.UUID) error {
	args := m.Called(ctx, actorID, id)
	return args.Error(0)
}

func (m *MockService) HardDelete(ctx context.Context, actorID, id uuid.UUID) error {
	args := m.Called(ctx, actorID, id)
	return args.Error(0)
}

func (m *MockService) Browse(ctx context.Context, query BrowseQuery) ([]Listing, *common.Pagination, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Listing), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockService) MyListings(ctx context.Context, actorID uuid.UUID, page, pageSize int) ([]Listing, *common.Pagination, error) {
	args := m.Called(ctx, actorID, page, pageSize)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Listing), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockService) SweepOrphanedImages(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func setupHandlerTest(actorID uuid.UUID) (*MockService, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	mockService := new(MockService)
	handler := NewHandler(mockService, zap.NewNop())

	router := gin.New()
	authMW := func(c *gin.Context) {
		c.Set(middleware.UserIDKey, actorID)
		c.Next()
	}
	handler.RegisterRoutes(router.Group("/api/v1"), authMW)
	return mockService, router
}

func multipartPayload(t *testing.T, payload string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("payload", payload))
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreateListingRejectsEmptyPayload(t *testing.T) {
	mockService, router := setupHandlerTest(uuid.New())

	body, contentType := multipartPayload(t, `{}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "VALIDATION_ERROR")
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateListingRejectsZeroPrice(t *testing.T) {
	mockService, router := setupHandlerTest(uuid.New())

	payload := fmt.Sprintf(`{"title": "Free couch", "price": 0, "category_id": %q, "condition": "good"}`, uuid.New())
	body, contentType := multipartPayload(t, payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "price")
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateListingRejectsInvalidCondition(t *testing.T) {
	mockService, router := setupHandlerTest(uuid.New())

	payload := fmt.Sprintf(`{"title": "Worn couch", "price": 5, "category_id": %q, "condition": "terrible"}`, uuid.New())
	body, contentType := multipartPayload(t, payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateListingAcceptsValidPayload(t *testing.T) {
	actorID := uuid.New()
	mockService, router := setupHandlerTest(actorID)
	categoryID := uuid.New()

	mockService.On("Create", mock.Anything, actorID, mock.MatchedBy(func(req CreateListingRequest) bool {
		return req.Title == "Desk lamp" && req.Price == 12.5 && req.Condition == ConditionGood
	}), mock.Anything).Return(
		&Listing{SellerID: actorID, Title: "Desk lamp", Price: 12.5},
		&UploadReport{Uploaded: []string{}, Failed: []FailedUpload{}},
		nil,
	)

	payload := fmt.Sprintf(`{"title": "Desk lamp", "price": 12.5, "category_id": %q, "condition": "good"}`, categoryID)
	body, contentType := multipartPayload(t, payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	mockService.AssertExpectations(t)
}

func TestDeleteListingRoutesPermanentFlag(t *testing.T) {
	actorID := uuid.New()
	listingID := uuid.New()

	t.Run("default is soft delete", func(t *testing.T) {
		mockService, router := setupHandlerTest(actorID)
		mockService.On("SoftDelete", mock.Anything, actorID, listingID).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/listings/"+listingID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		mockService.AssertNotCalled(t, "HardDelete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("permanent=true is hard delete", func(t *testing.T) {
		mockService, router := setupHandlerTest(actorID)
		mockService.On("HardDelete", mock.Anything, actorID, listingID).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/listings/"+listingID.String()+"?permanent=true", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		mockService.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBrowseListingsParsesCollectionFilter(t *testing.T) {
	mockService, router := setupHandlerTest(uuid.New())
	collectionID := uuid.New()

	mockService.On("Browse", mock.Anything, mock.MatchedBy(func(q BrowseQuery) bool {
		return q.CollectionID != nil && *q.CollectionID == collectionID
	})).Return([]Listing{}, common.NewPagination(0, 1, 10), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings?collection="+collectionID.String(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockService.AssertExpectations(t)
}

func TestBrowseListingsRejectsMalformedCollectionFilter(t *testing.T) {
	mockService, router := setupHandlerTest(uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings?collection=not-a-uuid", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockService.AssertNotCalled(t, "Browse", mock.Anything, mock.Anything)
}
