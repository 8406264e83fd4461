// internal/services/escrow_service.go
package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/errs"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/ledger"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/models"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/utils"
)

// EscrowService orchestrates purchases and the escrow lifecycle. A purchase
// snapshots its money breakdown at commit time; afterwards only the escrow
// status moves, always forward from funds_held.
type EscrowService struct {
	db           *gorm.DB
	notification *NotificationService
}

func NewEscrowService(db *gorm.DB, notification *NotificationService) *EscrowService {
	return &EscrowService{db: db, notification: notification}
}

type PurchaseRequest struct {
	ListingID uuid.UUID `json:"listing_id" validate:"required"`
	Quantity  float64   `json:"quantity" validate:"required,gt=0"`
}

type RefundRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// Purchase buys quantity units from a live listing. Inventory is decremented
// with a conditional update so concurrent buyers can never oversell; the
// transaction row and the decrement commit or roll back together.
func (s *EscrowService) Purchase(buyerID uuid.UUID, req *PurchaseRequest) (*models.Transaction, error) {
	if req.Quantity <= 0 {
		return nil, errs.Validation("quantity must be positive")
	}

	var txn *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.Preload("Seller").First(&listing, "id = ?", req.ListingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.NotFound("listing not found")
			}
			return errs.Dependency(err, "failed to load listing")
		}

		if !listing.Purchasable() {
			return errs.Validation("listing is not available for purchase")
		}
		if listing.SellerID == buyerID {
			return errs.Validation("you cannot purchase your own listing")
		}

		breakdown, err := ledger.Compute(req.Quantity, listing.PricePerUnit)
		if err != nil {
			return err
		}

		// Conditional decrement. Losing a quantity race means zero rows
		// updated, never a negative quantity.
		result := tx.Model(&models.Listing{}).
			Where("id = ? AND status = ? AND is_active = ? AND quantity >= ?",
				listing.ID, models.ListingStatusLive, true, req.Quantity).
			Update("quantity", gorm.Expr("quantity - ?", req.Quantity))
		if result.Error != nil {
			return errs.Dependency(result.Error, "failed to reserve inventory")
		}
		if result.RowsAffected == 0 {
			var current models.Listing
			if err := tx.Select("quantity", "status", "is_active").First(&current, "id = ?", listing.ID).Error; err == nil {
				if !current.Purchasable() {
					return errs.Validation("listing is not available for purchase")
				}
				if _, qtyErr := ledger.PostSaleQuantity(current.Quantity, req.Quantity); qtyErr != nil {
					return qtyErr
				}
			}
			return errs.Validation("listing is not available for purchase")
		}

		var remaining models.Listing
		if err := tx.Select("quantity").First(&remaining, "id = ?", listing.ID).Error; err != nil {
			return errs.Dependency(err, "failed to read remaining quantity")
		}
		if remaining.Quantity <= 0 {
			err := tx.Model(&models.Listing{}).
				Where("id = ?", listing.ID).
				Updates(map[string]interface{}{
					"status":    models.ListingStatusSold,
					"is_active": false,
				}).Error
			if err != nil {
				return errs.Dependency(err, "failed to mark listing sold")
			}
		}

		txn = &models.Transaction{
			Code:             utils.GenerateTransactionCode(),
			ListingID:        listing.ID,
			BuyerID:          buyerID,
			SellerID:         listing.SellerID,
			Quantity:         breakdown.Quantity,
			UnitPrice:        breakdown.UnitPrice,
			TotalAmount:      breakdown.TotalAmount,
			CommissionRate:   breakdown.CommissionRate,
			CommissionAmount: breakdown.CommissionAmount,
			SellerReceives:   breakdown.SellerReceives,
			EscrowStatus:     models.EscrowStatusFundsHeld,
		}
		if err := tx.Create(txn).Error; err != nil {
			return errs.Dependency(err, "failed to create transaction")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Listing").Preload("Buyer").Preload("Seller").
		First(txn, "id = ?", txn.ID).Error; err == nil {
		s.notification.SendPurchaseNotificationsAsync(txn)
	}

	return txn, nil
}

// ConfirmDelivery releases escrowed funds to the seller. Only the buyer may
// confirm, and only while funds are held.
func (s *EscrowService) ConfirmDelivery(transactionID, buyerID uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Listing").Preload("Buyer").Preload("Seller").
			First(&txn, "id = ?", transactionID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.NotFound("transaction not found")
			}
			return errs.Dependency(err, "failed to load transaction")
		}

		if txn.BuyerID != buyerID {
			return errs.Authorization("only the buyer may confirm delivery")
		}

		now := time.Now()
		result := tx.Model(&models.Transaction{}).
			Where("id = ? AND escrow_status = ?", transactionID, models.EscrowStatusFundsHeld).
			Updates(map[string]interface{}{
				"escrow_status":   models.EscrowStatusReleased,
				"buyer_confirmed": true,
				"released_at":     now,
			})
		if result.Error != nil {
			return errs.Dependency(result.Error, "failed to release funds")
		}
		if result.RowsAffected == 0 {
			return errs.Conflict("funds are not held for this transaction")
		}

		txn.EscrowStatus = models.EscrowStatusReleased
		txn.BuyerConfirmed = true
		txn.ReleasedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notification.SendFundsReleasedAsync(&txn)
	return &txn, nil
}

// Refund returns held funds to the buyer and restores the listing quantity.
// Admin-only; a released or already refunded transaction cannot be refunded.
func (s *EscrowService) Refund(transactionID, adminID uuid.UUID, req *RefundRequest) (*models.Transaction, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, errs.Validation("a reason is required for a refund")
	}

	var txn models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Listing").Preload("Buyer").Preload("Seller").
			First(&txn, "id = ?", transactionID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.NotFound("transaction not found")
			}
			return errs.Dependency(err, "failed to load transaction")
		}

		now := time.Now()
		result := tx.Model(&models.Transaction{}).
			Where("id = ? AND escrow_status = ?", transactionID, models.EscrowStatusFundsHeld).
			Updates(map[string]interface{}{
				"escrow_status": models.EscrowStatusRefunded,
				"refunded_at":   now,
				"refund_reason": strings.TrimSpace(req.Reason),
			})
		if result.Error != nil {
			return errs.Dependency(result.Error, "failed to refund transaction")
		}
		if result.RowsAffected == 0 {
			return errs.Conflict("only held funds can be refunded")
		}

		// Put the quantity back on the market. A sold-out listing returns
		// to live so the restored stock is purchasable again.
		err := tx.Model(&models.Listing{}).
			Where("id = ?", txn.ListingID).
			Update("quantity", gorm.Expr("quantity + ?", txn.Quantity)).Error
		if err != nil {
			return errs.Dependency(err, "failed to restore listing quantity")
		}

		err = tx.Model(&models.Listing{}).
			Where("id = ? AND status = ?", txn.ListingID, models.ListingStatusSold).
			Updates(map[string]interface{}{
				"status":    models.ListingStatusLive,
				"is_active": true,
			}).Error
		if err != nil {
			return errs.Dependency(err, "failed to relist restored quantity")
		}

		txn.EscrowStatus = models.EscrowStatusRefunded
		txn.RefundedAt = &now
		txn.RefundReason = strings.TrimSpace(req.Reason)
		return nil
	})
	if err != nil {
		return nil, err
	}

	audit := &models.AuditLog{
		UserID:       &adminID,
		Action:       "transaction.refund",
		ResourceType: "transaction",
		ResourceID:   &txn.ID,
		NewValues:    models.JSONB{"escrow_status": string(models.EscrowStatusRefunded), "reason": txn.RefundReason},
	}
	s.db.Create(audit)

	s.notification.SendRefundIssuedAsync(&txn)
	return &txn, nil
}

// GetByID loads one transaction. Buyers and sellers see their own; admins
// see everything.
func (s *EscrowService) GetByID(transactionID, requesterID uuid.UUID, isAdmin bool) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.Preload("Listing").Preload("Buyer").Preload("Seller").
		First(&txn, "id = ?", transactionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("transaction not found")
		}
		return nil, errs.Dependency(err, "failed to load transaction")
	}

	if !isAdmin && txn.BuyerID != requesterID && txn.SellerID != requesterID {
		return nil, errs.Authorization("you may only view your own transactions")
	}
	return &txn, nil
}

// ListForUser returns transactions where the user is buyer or seller.
func (s *EscrowService) ListForUser(userID uuid.UUID, offset, limit int) ([]models.Transaction, int64, error) {
	query := s.db.Model(&models.Transaction{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.Dependency(err, "failed to count transactions")
	}

	var txns []models.Transaction
	err := query.Preload("Listing").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, 0, errs.Dependency(err, "failed to list transactions")
	}
	return txns, total, nil
}
