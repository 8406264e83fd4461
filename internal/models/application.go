// internal/models/application.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SellerApplication is a one-time-per-outcome request by a user to become a
// verified miner. At most one non-terminal application exists per user,
// enforced by the application service rather than the schema.
type SellerApplication struct {
	BaseModel
	ApplicantID     uuid.UUID         `json:"applicant_id" gorm:"type:uuid;not null;index"`
	CompanyName     string            `json:"company_name" gorm:"size:255;not null"`
	LicenseNumber   string            `json:"license_number" gorm:"size:100"`
	MiningRegion    string            `json:"mining_region" gorm:"size:100"`
	DocumentURLs    pq.StringArray    `json:"document_urls" gorm:"type:text[]"`
	Notes           string            `json:"notes" gorm:"type:text"`
	Status          ApplicationStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	DecidedAt       *time.Time        `json:"decided_at"`
	DecidedBy       *uuid.UUID        `json:"decided_by" gorm:"type:uuid"`
	RejectionReason string            `json:"rejection_reason,omitempty" gorm:"type:text"`

	// Relationships
	Applicant User  `json:"applicant,omitempty" gorm:"foreignKey:ApplicantID"`
	Decider   *User `json:"decider,omitempty" gorm:"foreignKey:DecidedBy"`
}
