// internal/handlers/transaction_handler.go
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

type TransactionHandler struct {
	escrow *services.EscrowService
}

func NewTransactionHandler(escrow *services.EscrowService) *TransactionHandler {
	return &TransactionHandler{escrow: escrow}
}

// Purchase handles POST /api/v1/transactions.
func (h *TransactionHandler) Purchase(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req services.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if messages := utils.ValidateStruct(&req); messages != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", messages)
		return
	}

	txn, err := h.escrow.Purchase(userID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated,
		i18n.T(middleware.Lang(c), i18n.MsgPurchaseComplete), txn)
}

// ConfirmDelivery handles POST /api/v1/transactions/:id/confirm-delivery.
func (h *TransactionHandler) ConfirmDelivery(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid transaction ID", nil)
		return
	}

	txn, err := h.escrow.ConfirmDelivery(transactionID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK,
		i18n.T(middleware.Lang(c), i18n.MsgDeliveryConfirmed), txn)
}

// Get handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	user, _ := middleware.CurrentUser(c)

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid transaction ID", nil)
		return
	}

	txn, err := h.escrow.GetByID(transactionID, userID, user.Role == models.UserRoleAdmin)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", txn)
}

// ListMine handles GET /api/v1/transactions.
func (h *TransactionHandler) ListMine(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	pagination := utils.GetPagination(c)

	txns, total, err := h.escrow.ListForUser(userID, pagination.Offset(), pagination.PerPage)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, http.StatusOK, "", txns, pagination.BuildMeta(total))
}

// Refund handles POST /api/v1/admin/transactions/:id/refund.
func (h *TransactionHandler) Refund(c *gin.Context) {
	adminID, _ := middleware.CurrentUserID(c)

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid transaction ID", nil)
		return
	}

	var req services.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if messages := utils.ValidateStruct(&req); messages != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", messages)
		return
	}

	txn, err := h.escrow.Refund(transactionID, adminID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK,
		i18n.T(middleware.Lang(c), i18n.MsgRefundIssued), txn)
}
