// internal/services/listing_service.go
package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/errs"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/models"
)

// ListingService manages the listing lifecycle: sellers create drafts that
// enter review, admins decide them, and sellers publish approved listings.
type ListingService struct {
	db           *gorm.DB
	notification *NotificationService
}

func NewListingService(db *gorm.DB, notification *NotificationService) *ListingService {
	return &ListingService{db: db, notification: notification}
}

type CreateListingRequest struct {
	Title        string   `json:"title" validate:"required,max=255"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Unit         string   `json:"unit"`
	Quantity     float64  `json:"quantity" validate:"required,gt=0"`
	PricePerUnit float64  `json:"price_per_unit" validate:"required,gt=0"`
	MiningRegion string   `json:"mining_region" validate:"max=100"`
	PhotoURLs    []string `json:"photo_urls"`
}

type DecideListingRequest struct {
	Action models.DecisionAction `json:"action" validate:"required,oneof=approve reject"`
	Reason string                `json:"reason"`
}

type SearchListingsFilter struct {
	Category     string
	MiningRegion string
	MinPrice     float64
	MaxPrice     float64
	Query        string
}

// Create files a new listing for review. Only verified sellers may list.
func (s *ListingService) Create(sellerID uuid.UUID, req *CreateListingRequest) (*models.Listing, error) {
	var seller models.User
	if err := s.db.First(&seller, "id = ?", sellerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("seller not found")
		}
		return nil, errs.Dependency(err, "failed to load seller")
	}

	if seller.Role != models.UserRoleSeller || !seller.VerifiedMiner {
		return nil, errs.Authorization("only verified sellers may create listings")
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, errs.Validation("title is required")
	}
	if req.Quantity <= 0 {
		return nil, errs.Validation("quantity must be positive")
	}
	if req.PricePerUnit <= 0 {
		return nil, errs.Validation("price per unit must be positive")
	}

	listing := &models.Listing{
		SellerID:     sellerID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Category:     models.CategoryFromLabel(req.Category),
		Unit:         models.UnitFromLabel(req.Unit),
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
		MiningRegion: strings.TrimSpace(req.MiningRegion),
		PhotoURLs:    pq.StringArray(req.PhotoURLs),
		Status:       models.ListingStatusPendingReview,
		IsActive:     false,
	}

	if err := s.db.Create(listing).Error; err != nil {
		return nil, errs.Dependency(err, "failed to create listing")
	}

	s.notification.NotifyAdminsAsync(
		"listing_review",
		"New listing awaiting review",
		seller.Username+" submitted \""+listing.Title+"\" for review",
		"listing", listing.ID,
	)

	return listing, nil
}

// Decide resolves a listing under review. Only a listing still in
// pending_review can be decided; deciding anything else is a conflict.
func (s *ListingService) Decide(listingID, adminID uuid.UUID, req *DecideListingRequest) (*models.Listing, error) {
	if req.Action == models.DecisionReject && strings.TrimSpace(req.Reason) == "" {
		return nil, errs.Validation("a reason is required when rejecting a listing")
	}

	var listing models.Listing
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Seller").First(&listing, "id = ?", listingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.NotFound("listing not found")
			}
			return errs.Dependency(err, "failed to load listing")
		}

		newStatus := models.ListingStatusApproved
		updates := map[string]interface{}{"status": newStatus}
		if req.Action == models.DecisionApprove {
			now := time.Now()
			updates["approved_at"] = now
			listing.ApprovedAt = &now
		} else {
			newStatus = models.ListingStatusRejected
			updates["status"] = newStatus
		}

		result := tx.Model(&models.Listing{}).
			Where("id = ? AND status = ?", listingID, models.ListingStatusPendingReview).
			Updates(updates)
		if result.Error != nil {
			return errs.Dependency(result.Error, "failed to update listing")
		}
		if result.RowsAffected == 0 {
			return errs.Conflict("listing is not awaiting review")
		}

		listing.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.Action == models.DecisionApprove {
		s.notification.SendListingApprovedAsync(&listing)
	} else {
		s.notification.SendListingRejectedAsync(&listing, strings.TrimSpace(req.Reason))
	}

	audit := &models.AuditLog{
		UserID:       &adminID,
		Action:       "listing." + string(req.Action),
		ResourceType: "listing",
		ResourceID:   &listing.ID,
		NewValues:    models.JSONB{"status": string(listing.Status)},
	}
	s.db.Create(audit)

	return &listing, nil
}

// Publish makes an approved listing live. Only the owner may publish.
func (s *ListingService) Publish(listingID, sellerID uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&listing, "id = ?", listingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.NotFound("listing not found")
			}
			return errs.Dependency(err, "failed to load listing")
		}

		if listing.SellerID != sellerID {
			return errs.Authorization("only the listing owner may publish it")
		}

		result := tx.Model(&models.Listing{}).
			Where("id = ? AND status = ?", listingID, models.ListingStatusApproved).
			Updates(map[string]interface{}{
				"status":    models.ListingStatusLive,
				"is_active": true,
			})
		if result.Error != nil {
			return errs.Dependency(result.Error, "failed to publish listing")
		}
		if result.RowsAffected == 0 {
			return errs.Conflict("only an approved listing can be published")
		}

		listing.Status = models.ListingStatusLive
		listing.IsActive = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Deactivate takes a live listing off the market without deleting it.
func (s *ListingService) Deactivate(listingID, sellerID uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := s.db.First(&listing, "id = ?", listingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("listing not found")
		}
		return nil, errs.Dependency(err, "failed to load listing")
	}

	if listing.SellerID != sellerID {
		return nil, errs.Authorization("only the listing owner may deactivate it")
	}

	if err := s.db.Model(&listing).Update("is_active", false).Error; err != nil {
		return nil, errs.Dependency(err, "failed to deactivate listing")
	}
	listing.IsActive = false
	return &listing, nil
}

// GetByID loads one listing with its seller.
func (s *ListingService) GetByID(listingID uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := s.db.Preload("Seller").First(&listing, "id = ?", listingID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("listing not found")
		}
		return nil, errs.Dependency(err, "failed to load listing")
	}
	return &listing, nil
}

// Search returns live, active listings matching the filter, newest first.
func (s *ListingService) Search(filter SearchListingsFilter, offset, limit int) ([]models.Listing, int64, error) {
	query := s.db.Model(&models.Listing{}).
		Where("status = ? AND is_active = ?", models.ListingStatusLive, true)

	if filter.Category != "" {
		query = query.Where("category = ?", models.CategoryFromLabel(filter.Category))
	}
	if filter.MiningRegion != "" {
		query = query.Where("mining_region = ?", filter.MiningRegion)
	}
	if filter.MinPrice > 0 {
		query = query.Where("price_per_unit >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price_per_unit <= ?", filter.MaxPrice)
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.Dependency(err, "failed to count listings")
	}

	var listings []models.Listing
	err := query.Preload("Seller").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, 0, errs.Dependency(err, "failed to search listings")
	}

	return listings, total, nil
}

// ListPendingReview returns listings awaiting an admin decision, oldest first.
func (s *ListingService) ListPendingReview(offset, limit int) ([]models.Listing, int64, error) {
	query := s.db.Model(&models.Listing{}).Where("status = ?", models.ListingStatusPendingReview)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.Dependency(err, "failed to count listings")
	}

	var listings []models.Listing
	err := query.Preload("Seller").
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, 0, errs.Dependency(err, "failed to list listings")
	}

	return listings, total, nil
}

// ListBySeller returns all of a seller's listings regardless of status.
func (s *ListingService) ListBySeller(sellerID uuid.UUID) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, errs.Dependency(err, "failed to list seller listings")
	}
	return listings, nil
}
