// internal/handlers/inquiry_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/i18n"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/middleware"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/models"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/services"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/utils"
)

type InquiryHandler struct {
	inquiries *services.InquiryService
}

func NewInquiryHandler(inquiries *services.InquiryService) *InquiryHandler {
	return &InquiryHandler{inquiries: inquiries}
}

// Create handles POST /api/v1/inquiries.
func (h *InquiryHandler) Create(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req services.CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if messages := utils.ValidateStruct(&req); messages != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", messages)
		return
	}

	inquiry, err := h.inquiries.Create(userID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated,
		i18n.T(middleware.Lang(c), i18n.MsgInquirySent), inquiry)
}

// Respond handles POST /api/v1/inquiries/:id/respond.
func (h *InquiryHandler) Respond(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	inquiryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid inquiry ID", nil)
		return
	}

	var req services.RespondInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if messages := utils.ValidateStruct(&req); messages != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", messages)
		return
	}

	inquiry, err := h.inquiries.Respond(inquiryID, userID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK,
		i18n.T(middleware.Lang(c), i18n.MsgInquiryResponded), inquiry)
}

// Get handles GET /api/v1/inquiries/:id.
func (h *InquiryHandler) Get(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	user, _ := middleware.CurrentUser(c)

	inquiryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid inquiry ID", nil)
		return
	}

	inquiry, err := h.inquiries.GetByID(inquiryID, userID, user.Role == models.UserRoleAdmin)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", inquiry)
}

// ListReceived handles GET /api/v1/inquiries/received.
func (h *InquiryHandler) ListReceived(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	pagination := utils.GetPagination(c)

	inquiries, total, err := h.inquiries.ListForSeller(userID, pagination.Offset(), pagination.PerPage)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, http.StatusOK, "", inquiries, pagination.BuildMeta(total))
}

// ListSent handles GET /api/v1/inquiries/sent.
func (h *InquiryHandler) ListSent(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	pagination := utils.GetPagination(c)

	inquiries, total, err := h.inquiries.ListForBuyer(userID, pagination.Offset(), pagination.PerPage)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, http.StatusOK, "", inquiries, pagination.BuildMeta(total))
}
