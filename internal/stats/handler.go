// File: internal/stats/handler.go
package stats

import (
	"giventake_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for stats handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new stats handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for statistics.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stats", h.getOverview)
}

func (h *Handler) getOverview(c *gin.Context) {
	overview, err := h.service.GetOverview(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Statistics retrieved successfully.", overview)
}
