// internal/models/listing.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Listing struct {
	BaseModel
	SellerID     uuid.UUID       `json:"seller_id" gorm:"type:uuid;not null;index"`
	Title        string          `json:"title" gorm:"size:255;not null"`
	Description  string          `json:"description" gorm:"type:text"`
	Category     MineralCategory `json:"category" gorm:"type:varchar(30);index"`
	Unit         UnitOfMeasure   `json:"unit" gorm:"type:varchar(20)"`
	Quantity     float64         `json:"quantity" gorm:"type:decimal(12,3);not null"`
	PricePerUnit float64         `json:"price_per_unit" gorm:"type:decimal(12,2);not null"`
	MiningRegion string          `json:"mining_region" gorm:"size:100"`
	PhotoURLs    pq.StringArray  `json:"photo_urls" gorm:"type:text[]"`
	Status       ListingStatus   `json:"status" gorm:"type:varchar(20);default:'pending_review';index"`
	IsActive     bool            `json:"is_active" gorm:"default:false"`
	ApprovedAt   *time.Time      `json:"approved_at"`

	// Relationships
	Seller       User          `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Transactions []Transaction `json:"transactions,omitempty" gorm:"foreignKey:ListingID"`
	Inquiries    []Inquiry     `json:"inquiries,omitempty" gorm:"foreignKey:ListingID"`
}

// Purchasable reports whether the listing can accept a purchase at all.
// Quantity sufficiency is checked separately so callers can report the
// exact available amount.
func (l *Listing) Purchasable() bool {
	return l.IsActive && l.Status == ListingStatusLive
}
