// internal/handlers/admin_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/middleware"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/models"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/services"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/utils"
)

type AdminHandler struct {
	admin *services.AdminService
}

func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Dashboard handles GET /api/v1/admin/dashboard.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.admin.GetDashboardStats()
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", stats)
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	pagination := utils.GetPagination(c)

	users, total, err := h.admin.ListUsers(c.Query("role"), c.Query("status"),
		pagination.Offset(), pagination.PerPage)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, http.StatusOK, "", users, pagination.BuildMeta(total))
}

type setUserStatusRequest struct {
	Status models.UserStatus `json:"status" validate:"required,oneof=active suspended banned"`
}

// SetUserStatus handles POST /api/v1/admin/users/:id/status.
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	adminID, _ := middleware.CurrentUserID(c)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user ID", nil)
		return
	}

	var req setUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if messages := utils.ValidateStruct(&req); messages != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", messages)
		return
	}

	user, err := h.admin.SetUserStatus(userID, adminID, req.Status)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", user)
}

// ListTransactions handles GET /api/v1/admin/transactions.
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	pagination := utils.GetPagination(c)

	txns, total, err := h.admin.ListTransactions(c.Query("escrow_status"),
		pagination.Offset(), pagination.PerPage)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, http.StatusOK, "", txns, pagination.BuildMeta(total))
}

// ListNotifications handles GET /api/v1/admin/notifications.
func (h *AdminHandler) ListNotifications(c *gin.Context) {
	pagination := utils.GetPagination(c)

	notifications, total, err := h.admin.ListNotifications(pagination.Offset(), pagination.PerPage)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, http.StatusOK, "", notifications, pagination.BuildMeta(total))
}

// MarkNotificationRead handles POST /api/v1/admin/notifications/:id/read.
func (h *AdminHandler) MarkNotificationRead(c *gin.Context) {
	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid notification ID", nil)
		return
	}

	if err := h.admin.MarkNotificationRead(notificationID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", nil)
}

// ListAuditLogs handles GET /api/v1/admin/audit-logs.
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	pagination := utils.GetPagination(c)

	logs, total, err := h.admin.ListAuditLogs(pagination.Offset(), pagination.PerPage)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, http.StatusOK, "", logs, pagination.BuildMeta(total))
}
