// File: internal/category/handler.go
package category

import (
	"giventake_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for category handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new category handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for category operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	categoryGroup := router.Group("/categories")
	{
		categoryGroup.GET("", h.getAllCategories)
		categoryGroup.GET("/:idOrSlug", h.getCategory)
	}
}

func (h *Handler) getAllCategories(c *gin.Context) {
	categories, err := h.service.GetAllCategories(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	categoryResponses := make([]CategoryResponse, len(categories))
	for i, cat := range categories {
		categoryResponses[i] = ToCategoryResponse(&cat)
	}
	common.RespondOK(c, "Categories retrieved successfully.", categoryResponses)
}

func (h *Handler) getCategory(c *gin.Context) {
	idOrSlug := c.Param("idOrSlug")
	var catModel *Category
	var err error
	catID, parseErr := uuid.Parse(idOrSlug)
	if parseErr == nil {
		catModel, err = h.service.GetCategoryByID(c.Request.Context(), catID)
	} else {
		catModel, err = h.service.GetCategoryBySlug(c.Request.Context(), idOrSlug)
	}
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Category retrieved successfully.", ToCategoryResponse(catModel))
}
