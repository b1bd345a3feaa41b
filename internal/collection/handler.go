// File: internal/collection/handler.go
package collection

import (
	"errors"

	"giventake_backend/internal/common"
	"giventake_backend/internal/listing"
	"giventake_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for collection handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new collection handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for collection operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	collectionGroup := router.Group("/collections")
	{
		collectionGroup.GET("", h.getAllCollections)
		collectionGroup.GET("/:id", h.getCollection)
		collectionGroup.GET("/:id/listings", h.getCollectionListings)

		authGroup := collectionGroup.Group("")
		authGroup.Use(authMW)
		{
			authGroup.GET("/my-collections", h.getMyCollections)
			authGroup.POST("", h.createCollection)
			authGroup.PATCH("/:id", h.updateCollection)
			authGroup.DELETE("/:id", h.deleteCollection)
		}
	}
}

func (h *Handler) getAllCollections(c *gin.Context) {
	collections, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]CollectionResponse, len(collections))
	for i, col := range collections {
		responses[i] = ToCollectionResponse(&col)
	}
	common.RespondOK(c, "Collections retrieved successfully.", responses)
}

func (h *Handler) getCollectionListings(c *gin.Context) {
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid collection ID format."))
		return
	}
	page, pageSize := common.GetPaginationParams(c)

	listings, pagination, err := h.service.GetListings(c.Request.Context(), collectionID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]listing.ListingResponse, len(listings))
	for i, l := range listings {
		responses[i] = listing.ToListingResponse(&l)
	}
	common.RespondPaginated(c, "Collection listings retrieved successfully.", responses, pagination)
}

func (h *Handler) getCollection(c *gin.Context) {
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid collection ID format."))
		return
	}
	collection, err := h.service.GetByID(c.Request.Context(), collectionID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Collection retrieved successfully.", ToCollectionResponse(collection))
}

func (h *Handler) getMyCollections(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	collections, err := h.service.GetMine(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	responses := make([]CollectionResponse, len(collections))
	for i, col := range collections {
		responses[i] = ToCollectionResponse(&col)
	}
	common.RespondOK(c, "Collections retrieved successfully.", responses)
}

func (h *Handler) createCollection(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	var req CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create collection: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	collection, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Collection created successfully.", ToCollectionResponse(collection))
}

func (h *Handler) updateCollection(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid collection ID format."))
		return
	}
	var req UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update collection: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	collection, err := h.service.Update(c.Request.Context(), userID, collectionID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Collection updated successfully.", ToCollectionResponse(collection))
}

func (h *Handler) deleteCollection(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid collection ID format."))
		return
	}
	if err := h.service.Delete(c.Request.Context(), userID, collectionID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
