// File: internal/suggest/handler.go
package suggest

import (
	"errors"

	"giventake_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for suggestion handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new suggestion handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for AI suggestion operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	aiGroup := router.Group("/ai")
	aiGroup.Use(authMW)
	{
		aiGroup.POST("/generate-listing", h.generateListing)
	}
}

func (h *Handler) generateListing(c *gin.Context) {
	var req GenerateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Generate listing: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	suggestion, err := h.service.GenerateListingDetails(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing copy generated successfully.", suggestion)
}
