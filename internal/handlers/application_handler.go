// internal/handlers/application_handler.go
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

type ApplicationHandler struct {
	applications *services.ApplicationService
	storage      *services.StorageService
}

func NewApplicationHandler(applications *services.ApplicationService, storage *services.StorageService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, storage: storage}
}

// Submit handles POST /api/v1/applications.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req services.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if messages := utils.ValidateStruct(&req); messages != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", messages)
		return
	}

	application, err := h.applications.Submit(userID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated,
		i18n.T(middleware.Lang(c), i18n.MsgApplicationSubmitted), application)
}

// Decide handles POST /api/v1/admin/applications/:id/decide.
func (h *ApplicationHandler) Decide(c *gin.Context) {
	adminID, _ := middleware.CurrentUserID(c)

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid application ID", nil)
		return
	}

	var req services.DecideApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if messages := utils.ValidateStruct(&req); messages != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", messages)
		return
	}

	application, err := h.applications.Decide(applicationID, adminID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	messageKey := i18n.MsgApplicationApproved
	if req.Action == models.DecisionReject {
		messageKey = i18n.MsgApplicationRejected
	}
	utils.SuccessResponse(c, http.StatusOK, i18n.T(middleware.Lang(c), messageKey), application)
}

// Get handles GET /api/v1/applications/:id.
func (h *ApplicationHandler) Get(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	user, _ := middleware.CurrentUser(c)

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid application ID", nil)
		return
	}

	application, err := h.applications.GetByID(applicationID, userID, user.Role == models.UserRoleAdmin)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", application)
}

// ListMine handles GET /api/v1/applications.
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	applications, err := h.applications.ListByApplicant(userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", applications)
}

// ListPending handles GET /api/v1/admin/applications.
func (h *ApplicationHandler) ListPending(c *gin.Context) {
	pagination := utils.GetPagination(c)

	applications, total, err := h.applications.ListPending(pagination.Offset(), pagination.PerPage)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, http.StatusOK, "", applications, pagination.BuildMeta(total))
}

// UploadDocument handles POST /api/v1/applications/documents.
func (h *ApplicationHandler) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "A file is required", nil)
		return
	}

	url, err := h.storage.Upload(fileHeader, services.DocumentUploadOptions())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "", gin.H{"url": url})
}
