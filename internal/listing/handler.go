// File: internal/listing/handler.go
package listing

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"

	"giventake_backend/internal/common"
	"giventake_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxImageBytes caps a single uploaded image at 10 MiB.
const maxImageBytes = 10 << 20

// Handler struct holds dependencies for listing handlers.
type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHandler creates a new listing handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	// The multipart payload is validated outside gin's binding path, so the
	// validator must read the same "binding" tags the DTOs declare.
	validate := validator.New()
	validate.SetTagName("binding")
	return &Handler{
		service:  service,
		validate: validate,
		logger:   logger,
	}
}

// RegisterRoutes sets up the routes for listing operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	listingGroup := router.Group("/listings")
	{
		listingGroup.GET("", h.browseListings)
		listingGroup.GET("/my-listings", authMW, h.getMyListings)
		listingGroup.GET("/:id", h.getListing)
		listingGroup.POST("", authMW, h.createListing)
		listingGroup.PATCH("/:id", authMW, h.updateListing)
		listingGroup.PATCH("/:id/status", authMW, h.updateListingStatus)
		listingGroup.DELETE("/:id", authMW, h.deleteListing)
	}
}

// readUploads extracts image files from the multipart form under the
// "images" field.
func (h *Handler) readUploads(c *gin.Context) ([]ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, common.ErrBadRequest.WithDetails("Uploaded images exceed the allowed size.")
		}
		// No multipart body at all is fine; the request just has no images.
		return nil, nil
	}

	var uploads []ImageUpload
	for _, fileHeader := range form.File["images"] {
		if fileHeader.Size > maxImageBytes {
			return nil, common.ErrBadRequest.WithDetails("Each image must be smaller than 10 MiB.")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return nil, common.ErrBadRequest.WithDetails("Could not read uploaded image.")
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, common.ErrBadRequest.WithDetails("Could not read uploaded image.")
		}
		uploads = append(uploads, ImageUpload{
			FileName:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}

// bindPayload decodes and validates the JSON metadata carried in the
// "payload" form field.
func (h *Handler) bindPayload(c *gin.Context, dest interface{}) error {
	payload := c.PostForm("payload")
	if payload == "" {
		return common.ErrBadRequest.WithDetails("The 'payload' form field with listing metadata is required.")
	}
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return common.ErrBadRequest.WithDetails("The 'payload' form field is not valid JSON.")
	}
	if err := h.validate.Struct(dest); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return common.NewValidationAPIError(common.FormatValidationErrors(ve))
		}
		return common.ErrBadRequest.WithDetails(err.Error())
	}
	return nil
}

func (h *Handler) browseListings(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	query := BrowseQuery{
		SearchTerm:   c.Query("q"),
		CategorySlug: c.Query("category"),
		Page:         page,
		PageSize:     pageSize,
	}
	if raw := c.Query("collection"); raw != "" {
		collectionID, err := uuid.Parse(raw)
		if err != nil {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid collection ID format."))
			return
		}
		query.CollectionID = &collectionID
	}

	listings, pagination, err := h.service.Browse(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]ListingResponse, len(listings))
	for i, l := range listings {
		responses[i] = ToListingResponse(&l)
	}
	common.RespondPaginated(c, "Listings retrieved successfully.", responses, pagination)
}

func (h *Handler) getListing(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	listing, err := h.service.GetByID(c.Request.Context(), listingID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing retrieved successfully.", ToListingResponse(listing))
}

func (h *Handler) getMyListings(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	page, pageSize := common.GetPaginationParams(c)

	listings, pagination, err := h.service.MyListings(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]ListingResponse, len(listings))
	for i, l := range listings {
		responses[i] = ToListingResponse(&l)
	}
	common.RespondPaginated(c, "Your listings retrieved successfully.", responses, pagination)
}

func (h *Handler) createListing(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var req CreateListingRequest
	if err := h.bindPayload(c, &req); err != nil {
		h.logger.Warn("Create listing: invalid payload", zap.Error(err))
		common.RespondWithError(c, err)
		return
	}
	uploads, err := h.readUploads(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	created, report, err := h.service.Create(c.Request.Context(), userID, req, uploads)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	resp := ToListingResponse(created)
	common.RespondCreated(c, "Listing created successfully.", CreateOrUpdateResult{
		Listing: &resp,
		Images:  report,
	})
}

func (h *Handler) updateListing(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	var req UpdateListingRequest
	if err := h.bindPayload(c, &req); err != nil {
		h.logger.Warn("Update listing: invalid payload", zap.Error(err), zap.String("listing_id", listingID.String()))
		common.RespondWithError(c, err)
		return
	}
	uploads, err := h.readUploads(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	updated, report, err := h.service.Update(c.Request.Context(), userID, listingID, req, uploads)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	resp := ToListingResponse(updated)
	common.RespondOK(c, "Listing updated successfully.", CreateOrUpdateResult{
		Listing: &resp,
		Images:  report,
	})
}

func (h *Handler) updateListingStatus(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update listing status: invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), userID, listingID, req.Status)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Listing status updated successfully.", ToListingResponse(updated))
}

func (h *Handler) deleteListing(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid listing ID format."))
		return
	}

	if c.Query("permanent") == "true" {
		err = h.service.HardDelete(c.Request.Context(), userID, listingID)
	} else {
		err = h.service.SoftDelete(c.Request.Context(), userID, listingID)
	}
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}
