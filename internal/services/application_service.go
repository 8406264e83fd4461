// internal/services/application_service.go
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

// ApplicationService manages the seller verification workflow: a buyer
// applies once, an admin decides once, and approval promotes the account.
type ApplicationService struct {
	db           *gorm.DB
	notification *NotificationService
}

func NewApplicationService(db *gorm.DB, notification *NotificationService) *ApplicationService {
	return &ApplicationService{db: db, notification: notification}
}

type SubmitApplicationRequest struct {
	CompanyName   string   `json:"company_name" validate:"required,max=255"`
	LicenseNumber string   `json:"license_number" validate:"max=100"`
	MiningRegion  string   `json:"mining_region" validate:"max=100"`
	DocumentURLs  []string `json:"document_urls"`
	Notes         string   `json:"notes"`
}

type DecideApplicationRequest struct {
	Action models.DecisionAction `json:"action" validate:"required,oneof=approve reject"`
	Reason string                `json:"reason"`
}

// Submit files a new application for applicantID. A user with a pending or
// approved application cannot file another; a rejected applicant may re-apply.
func (s *ApplicationService) Submit(applicantID uuid.UUID, req *SubmitApplicationRequest) (*models.SellerApplication, error) {
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, errs.Validation("company name is required")
	}

	var applicant models.User
	if err := s.db.First(&applicant, "id = ?", applicantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("applicant not found")
		}
		return nil, errs.Dependency(err, "failed to load applicant")
	}

	if applicant.Role == models.UserRoleSeller || applicant.VerifiedMiner {
		return nil, errs.Conflict("account is already a verified seller")
	}

	var existing int64
	err := s.db.Model(&models.SellerApplication{}).
		Where("applicant_id = ? AND status IN ?", applicantID,
			[]models.ApplicationStatus{models.ApplicationStatusPending, models.ApplicationStatusApproved}).
		Count(&existing).Error
	if err != nil {
		return nil, errs.Dependency(err, "failed to check existing applications")
	}
	if existing > 0 {
		return nil, errs.Conflict("an application is already pending or approved for this account")
	}

	application := &models.SellerApplication{
		ApplicantID:   applicantID,
		CompanyName:   strings.TrimSpace(req.CompanyName),
		LicenseNumber: strings.TrimSpace(req.LicenseNumber),
		MiningRegion:  strings.TrimSpace(req.MiningRegion),
		DocumentURLs:  pq.StringArray(req.DocumentURLs),
		Notes:         req.Notes,
		Status:        models.ApplicationStatusPending,
	}

	if err := s.db.Create(application).Error; err != nil {
		return nil, errs.Dependency(err, "failed to create application")
	}

	s.notification.NotifyAdminsAsync(
		"seller_application",
		"New seller application",
		applicant.Username+" applied to become a verified seller",
		"seller_application", application.ID,
	)

	return application, nil
}

// Decide resolves a pending application. Approval promotes the applicant to
// seller and marks them a verified miner in the same transaction; a second
// decision on the same application is a conflict.
func (s *ApplicationService) Decide(applicationID, adminID uuid.UUID, req *DecideApplicationRequest) (*models.SellerApplication, error) {
	if req.Action == models.DecisionReject && strings.TrimSpace(req.Reason) == "" {
		return nil, errs.Validation("a reason is required when rejecting an application")
	}

	var application models.SellerApplication
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Applicant").First(&application, "id = ?", applicationID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.NotFound("application not found")
			}
			return errs.Dependency(err, "failed to load application")
		}

		newStatus := models.ApplicationStatusApproved
		if req.Action == models.DecisionReject {
			newStatus = models.ApplicationStatusRejected
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":     newStatus,
			"decided_at": now,
			"decided_by": adminID,
		}
		if req.Action == models.DecisionReject {
			updates["rejection_reason"] = strings.TrimSpace(req.Reason)
		}

		// Guarded update: only a still-pending row transitions, so two
		// concurrent decisions cannot both win.
		result := tx.Model(&models.SellerApplication{}).
			Where("id = ? AND status = ?", applicationID, models.ApplicationStatusPending).
			Updates(updates)
		if result.Error != nil {
			return errs.Dependency(result.Error, "failed to update application")
		}
		if result.RowsAffected == 0 {
			return errs.Conflict("application has already been decided")
		}

		if req.Action == models.DecisionApprove {
			err := tx.Model(&models.User{}).
				Where("id = ?", application.ApplicantID).
				Updates(map[string]interface{}{
					"role":           models.UserRoleSeller,
					"verified_miner": true,
				}).Error
			if err != nil {
				return errs.Dependency(err, "failed to promote applicant")
			}
		}

		application.Status = newStatus
		application.DecidedAt = &now
		application.DecidedBy = &adminID
		if req.Action == models.DecisionReject {
			application.RejectionReason = strings.TrimSpace(req.Reason)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.Action == models.DecisionApprove {
		s.notification.SendApplicationApprovedAsync(&application)
	} else {
		s.notification.SendApplicationRejectedAsync(&application)
	}

	return &application, nil
}

// GetByID loads one application. Non-admins may only see their own.
func (s *ApplicationService) GetByID(applicationID, requesterID uuid.UUID, isAdmin bool) (*models.SellerApplication, error) {
	var application models.SellerApplication
	if err := s.db.Preload("Applicant").First(&application, "id = ?", applicationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("application not found")
		}
		return nil, errs.Dependency(err, "failed to load application")
	}

	if !isAdmin && application.ApplicantID != requesterID {
		return nil, errs.Authorization("you may only view your own applications")
	}
	return &application, nil
}

// ListPending returns pending applications for admin review, oldest first.
func (s *ApplicationService) ListPending(offset, limit int) ([]models.SellerApplication, int64, error) {
	var (
		applications []models.SellerApplication
		total        int64
	)

	query := s.db.Model(&models.SellerApplication{}).Where("status = ?", models.ApplicationStatusPending)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.Dependency(err, "failed to count applications")
	}

	err := query.Preload("Applicant").
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&applications).Error
	if err != nil {
		return nil, 0, errs.Dependency(err, "failed to list applications")
	}

	return applications, total, nil
}

// ListByApplicant returns a user's own application history, newest first.
func (s *ApplicationService) ListByApplicant(applicantID uuid.UUID) ([]models.SellerApplication, error) {
	var applications []models.SellerApplication
	err := s.db.Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, errs.Dependency(err, "failed to list applications")
	}
	return applications, nil
}
