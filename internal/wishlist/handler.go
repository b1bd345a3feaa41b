// File: internal/wishlist/handler.go
package wishlist

import (
	"errors"

	"giventake_backend/internal/common"
	"giventake_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for wishlist handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new wishlist handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for wishlist operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	wishlistGroup := router.Group("/wishlist")
	{
		wishlistGroup.GET("", h.browseWishlist)
		wishlistGroup.GET("/my-items", authMW, h.getMyItems)
		wishlistGroup.GET("/:id", h.getItem)
		wishlistGroup.POST("", authMW, h.createItem)
		wishlistGroup.PATCH("/:id", authMW, h.updateItem)
		wishlistGroup.POST("/:id/fulfill", authMW, h.markFulfilled)
		wishlistGroup.DELETE("/:id", authMW, h.deleteItem)
	}
}

func (h *Handler) browseWishlist(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	query := BrowseQuery{
		SearchTerm:   c.Query("q"),
		CategorySlug: c.Query("category"),
		Page:         page,
		PageSize:     pageSize,
	}

	items, pagination, err := h.service.Browse(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]WishlistItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToWishlistItemResponse(&item)
	}
	common.RespondPaginated(c, "Wishlist items retrieved successfully.", responses, pagination)
}

func (h *Handler) getMyItems(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	page, pageSize := common.GetPaginationParams(c)

	items, pagination, err := h.service.GetMine(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]WishlistItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToWishlistItemResponse(&item)
	}
	common.RespondPaginated(c, "Your wishlist items retrieved successfully.", responses, pagination)
}

func (h *Handler) getItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid wishlist item ID format."))
		return
	}
	item, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Wishlist item retrieved successfully.", ToWishlistItemResponse(item))
}

func (h *Handler) createItem(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	var req CreateWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create wishlist item: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	item, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Wishlist item created successfully.", ToWishlistItemResponse(item))
}

func (h *Handler) updateItem(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid wishlist item ID format."))
		return
	}
	var req UpdateWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update wishlist item: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	item, err := h.service.Update(c.Request.Context(), userID, itemID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Wishlist item updated successfully.", ToWishlistItemResponse(item))
}

func (h *Handler) markFulfilled(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid wishlist item ID format."))
		return
	}
	item, err := h.service.MarkFulfilled(c.Request.Context(), userID, itemID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Wishlist item marked as fulfilled.", ToWishlistItemResponse(item))
}

func (h *Handler) deleteItem(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid wishlist item ID format."))
		return
	}
	if err := h.service.Delete(c.Request.Context(), userID, itemID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
