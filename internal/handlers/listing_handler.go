// internal/handlers/listing_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/i18n"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/middleware"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/models"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/services"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/utils"
)

type ListingHandler struct {
	listings *services.ListingService
	storage  *services.StorageService
}

func NewListingHandler(listings *services.ListingService, storage *services.StorageService) *ListingHandler {
	return &ListingHandler{listings: listings, storage: storage}
}

// Create handles POST /api/v1/listings.
func (h *ListingHandler) Create(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req services.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if messages := utils.ValidateStruct(&req); messages != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", messages)
		return
	}

	listing, err := h.listings.Create(userID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated,
		i18n.T(middleware.Lang(c), i18n.MsgListingCreated), listing)
}

// Search handles GET /api/v1/listings (public).
func (h *ListingHandler) Search(c *gin.Context) {
	pagination := utils.GetPagination(c)

	minPrice, _ := strconv.ParseFloat(c.Query("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)

	filter := services.SearchListingsFilter{
		Category:     c.Query("category"),
		MiningRegion: c.Query("region"),
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		Query:        c.Query("q"),
	}

	listings, total, err := h.listings.Search(filter, pagination.Offset(), pagination.PerPage)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, http.StatusOK, "", listings, pagination.BuildMeta(total))
}

// Get handles GET /api/v1/listings/:id (public).
func (h *ListingHandler) Get(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing ID", nil)
		return
	}

	listing, err := h.listings.GetByID(listingID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", listing)
}

// Publish handles POST /api/v1/listings/:id/publish.
func (h *ListingHandler) Publish(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing ID", nil)
		return
	}

	listing, err := h.listings.Publish(listingID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK,
		i18n.T(middleware.Lang(c), i18n.MsgListingPublished), listing)
}

// Deactivate handles POST /api/v1/listings/:id/deactivate.
func (h *ListingHandler) Deactivate(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing ID", nil)
		return
	}

	listing, err := h.listings.Deactivate(listingID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", listing)
}

// ListMine handles GET /api/v1/listings/mine.
func (h *ListingHandler) ListMine(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	listings, err := h.listings.ListBySeller(userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", listings)
}

// Decide handles POST /api/v1/admin/listings/:id/decide.
func (h *ListingHandler) Decide(c *gin.Context) {
	adminID, _ := middleware.CurrentUserID(c)

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing ID", nil)
		return
	}

	var req services.DecideListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if messages := utils.ValidateStruct(&req); messages != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", messages)
		return
	}

	listing, err := h.listings.Decide(listingID, adminID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	messageKey := i18n.MsgListingApproved
	if req.Action == models.DecisionReject {
		messageKey = i18n.MsgListingRejected
	}
	utils.SuccessResponse(c, http.StatusOK, i18n.T(middleware.Lang(c), messageKey), listing)
}

// ListPendingReview handles GET /api/v1/admin/listings.
func (h *ListingHandler) ListPendingReview(c *gin.Context) {
	pagination := utils.GetPagination(c)

	listings, total, err := h.listings.ListPendingReview(pagination.Offset(), pagination.PerPage)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, http.StatusOK, "", listings, pagination.BuildMeta(total))
}

// UploadPhoto handles POST /api/v1/listings/photos.
func (h *ListingHandler) UploadPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "A file is required", nil)
		return
	}

	url, err := h.storage.Upload(fileHeader, services.PhotoUploadOptions())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "", gin.H{"url": url})
}

// Categories handles GET /api/v1/catalog/categories (public).
func (h *ListingHandler) Categories(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", models.Categories())
}
