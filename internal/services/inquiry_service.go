// internal/services/inquiry_service.go
package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/errs"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/models"
)

// InquiryService handles buyer questions on listings and the seller's
// one-shot response to each.
type InquiryService struct {
	db           *gorm.DB
	notification *NotificationService
}

func NewInquiryService(db *gorm.DB, notification *NotificationService) *InquiryService {
	return &InquiryService{db: db, notification: notification}
}

type CreateInquiryRequest struct {
	ListingID uuid.UUID `json:"listing_id" validate:"required"`
	Message   string    `json:"message" validate:"required"`
}

type RespondInquiryRequest struct {
	Response string `json:"response" validate:"required"`
}

// Create files a buyer inquiry against a live listing.
func (s *InquiryService) Create(buyerID uuid.UUID, req *CreateInquiryRequest) (*models.Inquiry, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errs.Validation("message must not be empty")
	}

	var listing models.Listing
	if err := s.db.Preload("Seller").First(&listing, "id = ?", req.ListingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("listing not found")
		}
		return nil, errs.Dependency(err, "failed to load listing")
	}

	if !listing.Purchasable() {
		return nil, errs.Conflict("listing is not open for inquiries")
	}
	if listing.SellerID == buyerID {
		return nil, errs.Validation("you cannot inquire about your own listing")
	}

	inquiry := &models.Inquiry{
		ListingID: listing.ID,
		BuyerID:   buyerID,
		SellerID:  listing.SellerID,
		Message:   message,
		Status:    models.InquiryStatusPending,
	}
	if err := s.db.Create(inquiry).Error; err != nil {
		return nil, errs.Dependency(err, "failed to create inquiry")
	}

	inquiry.Listing = listing
	inquiry.Seller = listing.Seller
	s.notification.SendInquiryReceivedAsync(inquiry)

	return inquiry, nil
}

// Respond records the seller's answer. Only the listing's seller may
// respond, a response cannot be blank, and an inquiry can be answered
// exactly once.
func (s *InquiryService) Respond(inquiryID, sellerID uuid.UUID, req *RespondInquiryRequest) (*models.Inquiry, error) {
	response := strings.TrimSpace(req.Response)
	if response == "" {
		return nil, errs.Validation("response must not be empty")
	}

	var inquiry models.Inquiry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Listing").Preload("Buyer").First(&inquiry, "id = ?", inquiryID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.NotFound("inquiry not found")
			}
			return errs.Dependency(err, "failed to load inquiry")
		}

		if inquiry.SellerID != sellerID {
			return errs.Authorization("only the listing seller may respond to this inquiry")
		}

		now := time.Now()
		result := tx.Model(&models.Inquiry{}).
			Where("id = ? AND status = ?", inquiryID, models.InquiryStatusPending).
			Updates(map[string]interface{}{
				"response":     response,
				"status":       models.InquiryStatusResponded,
				"responded_at": now,
			})
		if result.Error != nil {
			return errs.Dependency(result.Error, "failed to record response")
		}
		if result.RowsAffected == 0 {
			return errs.Conflict("inquiry has already been responded to")
		}

		inquiry.Response = response
		inquiry.Status = models.InquiryStatusResponded
		inquiry.RespondedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notification.SendInquiryResponseAsync(&inquiry)
	return &inquiry, nil
}

// GetByID loads one inquiry for its buyer, its seller, or an admin.
func (s *InquiryService) GetByID(inquiryID, requesterID uuid.UUID, isAdmin bool) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	if err := s.db.Preload("Listing").Preload("Buyer").First(&inquiry, "id = ?", inquiryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("inquiry not found")
		}
		return nil, errs.Dependency(err, "failed to load inquiry")
	}

	if !isAdmin && inquiry.BuyerID != requesterID && inquiry.SellerID != requesterID {
		return nil, errs.Authorization("you may only view your own inquiries")
	}
	return &inquiry, nil
}

// ListForSeller returns inquiries on a seller's listings, pending first.
func (s *InquiryService) ListForSeller(sellerID uuid.UUID, offset, limit int) ([]models.Inquiry, int64, error) {
	query := s.db.Model(&models.Inquiry{}).Where("seller_id = ?", sellerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.Dependency(err, "failed to count inquiries")
	}

	var inquiries []models.Inquiry
	err := query.Preload("Listing").Preload("Buyer").
		Order("status DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&inquiries).Error
	if err != nil {
		return nil, 0, errs.Dependency(err, "failed to list inquiries")
	}
	return inquiries, total, nil
}

// ListForBuyer returns the inquiries a buyer has made, newest first.
func (s *InquiryService) ListForBuyer(buyerID uuid.UUID, offset, limit int) ([]models.Inquiry, int64, error) {
	query := s.db.Model(&models.Inquiry{}).Where("buyer_id = ?", buyerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.Dependency(err, "failed to count inquiries")
	}

	var inquiries []models.Inquiry
	err := query.Preload("Listing").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&inquiries).Error
	if err != nil {
		return nil, 0, errs.Dependency(err, "failed to list inquiries")
	}
	return inquiries, total, nil
}
