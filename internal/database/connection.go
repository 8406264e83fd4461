// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/christopherzulu0/Bixi-Road-sub001/internal/config"
	"github.com/christopherzulu0/Bixi-Road-sub001/internal/models"
)

// Initialize opens the Postgres connection pool and configures it from the
// database section of the app config.
func Initialize(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	gormLogger := logger.Default.LogMode(logLevel(cfg.LogLevel))

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return db, nil
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}

// RunMigrations creates or updates the schema for every model the
// marketplace persists.
func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.SellerApplication{},
		&models.Listing{},
		&models.Transaction{},
		&models.Inquiry{},
		&models.AuditLog{},
		&models.AdminNotification{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_listings_status_active ON listings(status, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_listings_category ON listings(category)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_escrow ON transactions(escrow_status)",
		"CREATE INDEX IF NOT EXISTS idx_applications_applicant_status ON seller_applications(applicant_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_inquiries_seller_status ON inquiries(seller_id, status)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.Warnf("Failed to create index: %v", err)
		}
	}

	return nil
}

// SeedInitialData creates the default admin account when no admin exists.
func SeedInitialData(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@mineralmarket.example",
		Role:     models.UserRoleAdmin,
		Status:   models.UserStatusActive,
	}
	if err := admin.SetPassword("admin123!"); err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	logrus.Info("Seeded default admin user")
	return nil
}

// WithTransaction runs fn inside a database transaction, rolling back on
// error or panic.
func WithTransaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.Transaction(fn)
}
