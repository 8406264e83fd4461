// internal/services/admin_service.go
package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/errs"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/ledger"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/models"
)

// AdminService backs the admin dashboard: platform stats, user management,
// and the notification inbox.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

type DashboardStats struct {
	TotalUsers          int64   `json:"total_users"`
	VerifiedSellers     int64   `json:"verified_sellers"`
	PendingApplications int64   `json:"pending_applications"`
	PendingListings     int64   `json:"pending_listings"`
	LiveListings        int64   `json:"live_listings"`
	TotalTransactions   int64   `json:"total_transactions"`
	FundsHeld           float64 `json:"funds_held"`
	TotalCommission     float64 `json:"total_commission"`
	UnreadNotifications int64   `json:"unread_notifications"`
}

// GetDashboardStats aggregates the counters shown on the admin landing page.
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, s.db.Model(&models.User{})},
		{&stats.VerifiedSellers, s.db.Model(&models.User{}).Where("verified_miner = ?", true)},
		{&stats.PendingApplications, s.db.Model(&models.SellerApplication{}).Where("status = ?", models.ApplicationStatusPending)},
		{&stats.PendingListings, s.db.Model(&models.Listing{}).Where("status = ?", models.ListingStatusPendingReview)},
		{&stats.LiveListings, s.db.Model(&models.Listing{}).Where("status = ? AND is_active = ?", models.ListingStatusLive, true)},
		{&stats.TotalTransactions, s.db.Model(&models.Transaction{})},
		{&stats.UnreadNotifications, s.db.Model(&models.AdminNotification{}).Where("status = ?", "unread")},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, errs.Dependency(err, "failed to load dashboard counters")
		}
	}

	type sumRow struct {
		Sum float64
	}
	var held sumRow
	err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(total_amount), 0) AS sum").
		Where("escrow_status = ?", models.EscrowStatusFundsHeld).
		Scan(&held).Error
	if err != nil {
		return nil, errs.Dependency(err, "failed to sum held funds")
	}
	stats.FundsHeld = ledger.RoundToCents(held.Sum)

	var commission sumRow
	err = s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(commission_amount), 0) AS sum").
		Where("escrow_status = ?", models.EscrowStatusReleased).
		Scan(&commission).Error
	if err != nil {
		return nil, errs.Dependency(err, "failed to sum commission")
	}
	stats.TotalCommission = ledger.RoundToCents(commission.Sum)

	return stats, nil
}

// ListUsers returns accounts with optional role and status filters.
func (s *AdminService) ListUsers(role, status string, offset, limit int) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.Dependency(err, "failed to count users")
	}

	var users []models.User
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, 0, errs.Dependency(err, "failed to list users")
	}
	return users, total, nil
}

// SetUserStatus suspends, bans, or reactivates an account. Admin accounts
// cannot be targeted.
func (s *AdminService) SetUserStatus(userID, adminID uuid.UUID, status models.UserStatus) (*models.User, error) {
	switch status {
	case models.UserStatusActive, models.UserStatusSuspended, models.UserStatusBanned:
	default:
		return nil, errs.Validation("invalid user status: %s", status)
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NotFound("user not found")
		}
		return nil, errs.Dependency(err, "failed to load user")
	}

	if user.Role == models.UserRoleAdmin {
		return nil, errs.Authorization("admin accounts cannot be moderated")
	}

	oldStatus := user.Status
	if err := s.db.Model(&user).Update("status", status).Error; err != nil {
		return nil, errs.Dependency(err, "failed to update user status")
	}
	user.Status = status

	audit := &models.AuditLog{
		UserID:       &adminID,
		Action:       "user.set_status",
		ResourceType: "user",
		ResourceID:   &user.ID,
		OldValues:    models.JSONB{"status": string(oldStatus)},
		NewValues:    models.JSONB{"status": string(status)},
	}
	s.db.Create(audit)

	return &user, nil
}

// ListTransactions returns all transactions with an optional escrow filter.
func (s *AdminService) ListTransactions(escrowStatus string, offset, limit int) ([]models.Transaction, int64, error) {
	query := s.db.Model(&models.Transaction{})
	if escrowStatus != "" {
		query = query.Where("escrow_status = ?", escrowStatus)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.Dependency(err, "failed to count transactions")
	}

	var txns []models.Transaction
	err := query.Preload("Listing").Preload("Buyer").Preload("Seller").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, 0, errs.Dependency(err, "failed to list transactions")
	}
	return txns, total, nil
}

// ListNotifications returns the admin inbox, unread first.
func (s *AdminService) ListNotifications(offset, limit int) ([]models.AdminNotification, int64, error) {
	query := s.db.Model(&models.AdminNotification{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.Dependency(err, "failed to count notifications")
	}

	var notifications []models.AdminNotification
	err := query.Order("status DESC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, errs.Dependency(err, "failed to list notifications")
	}
	return notifications, total, nil
}

// MarkNotificationRead marks one notification read.
func (s *AdminService) MarkNotificationRead(notificationID uuid.UUID) error {
	now := time.Now()
	result := s.db.Model(&models.AdminNotification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{"status": "read", "read_at": now})
	if result.Error != nil {
		return errs.Dependency(result.Error, "failed to mark notification read")
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("notification not found")
	}
	return nil
}

// ListAuditLogs returns the audit trail, newest first.
func (s *AdminService) ListAuditLogs(offset, limit int) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.Dependency(err, "failed to count audit logs")
	}

	var logs []models.AuditLog
	err := query.Preload("User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, errs.Dependency(err, "failed to list audit logs")
	}
	return logs, total, nil
}
