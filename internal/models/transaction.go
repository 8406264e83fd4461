// internal/models/transaction.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is the immutable escrow record of one purchase. Money fields
// are snapshots taken at purchase time and never recomputed; only the escrow
// status and buyer confirmation advance afterwards.
type Transaction struct {
	BaseModel
	Code             string       `json:"code" gorm:"size:40;index"`
	ListingID        uuid.UUID    `json:"listing_id" gorm:"type:uuid;not null;index"`
	BuyerID          uuid.UUID    `json:"buyer_id" gorm:"type:uuid;not null;index"`
	SellerID         uuid.UUID    `json:"seller_id" gorm:"type:uuid;not null;index"`
	Quantity         float64      `json:"quantity" gorm:"type:decimal(12,3);not null"`
	UnitPrice        float64      `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	TotalAmount      float64      `json:"total_amount" gorm:"type:decimal(14,2);not null"`
	CommissionRate   float64      `json:"commission_rate" gorm:"type:decimal(5,4);not null"`
	CommissionAmount float64      `json:"commission_amount" gorm:"type:decimal(14,2);not null"`
	SellerReceives   float64      `json:"seller_receives" gorm:"type:decimal(14,2);not null"`
	EscrowStatus     EscrowStatus `json:"escrow_status" gorm:"type:varchar(20);default:'funds_held';index"`
	BuyerConfirmed   bool         `json:"buyer_confirmed" gorm:"default:false"`
	ReleasedAt       *time.Time   `json:"released_at"`
	RefundedAt       *time.Time   `json:"refunded_at"`
	RefundReason     string       `json:"refund_reason,omitempty" gorm:"type:text"`

	// Relationships
	Listing Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	Buyer   User    `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller  User    `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}
