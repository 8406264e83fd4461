// internal/services/services_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/config"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/models"
)

// setupTestDB opens a private in-memory database. The pool is pinned to a
// single connection so the database survives for the whole test and
// concurrent callers serialize instead of hitting SQLITE_BUSY.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.SellerApplication{},
		&models.Listing{},
		&models.Transaction{},
		&models.Inquiry{},
		&models.AuditLog{},
		&models.AdminNotification{},
	))

	return db
}

func newTestNotificationService(db *gorm.DB) *NotificationService {
	// No SMTP host configured, so emails are skipped and only admin
	// notifications are written.
	return NewNotificationService(db, config.EmailConfig{})
}

func createTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	id := uuid.New()
	user := &models.User{
		Username:   "user-" + id.String()[:8],
		Email:      id.String()[:8] + "@test.example",
		ExternalID: id.String(),
		Role:       role,
		Status:     models.UserStatusActive,
	}
	if role == models.UserRoleSeller {
		user.VerifiedMiner = true
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestListing(t *testing.T, db *gorm.DB, sellerID uuid.UUID, quantity, pricePerUnit float64, status models.ListingStatus, active bool) *models.Listing {
	t.Helper()

	listing := &models.Listing{
		SellerID:     sellerID,
		Title:        "Copper cathode batch",
		Description:  "99.99% purity",
		Category:     models.CategoryCopper,
		Unit:         models.UnitKilograms,
		Quantity:     quantity,
		PricePerUnit: pricePerUnit,
		MiningRegion: "Copperbelt",
		Status:       status,
		IsActive:     active,
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

func createLiveListing(t *testing.T, db *gorm.DB, sellerID uuid.UUID, quantity, pricePerUnit float64) *models.Listing {
	t.Helper()
	return createTestListing(t, db, sellerID, quantity, pricePerUnit, models.ListingStatusLive, true)
}
