// internal/models/inquiry.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Inquiry struct {
	BaseModel
	ListingID   uuid.UUID     `json:"listing_id" gorm:"type:uuid;not null;index"`
	BuyerID     uuid.UUID     `json:"buyer_id" gorm:"type:uuid;not null;index"`
	SellerID    uuid.UUID     `json:"seller_id" gorm:"type:uuid;not null;index"`
	Message     string        `json:"message" gorm:"type:text;not null"`
	Response    string        `json:"response,omitempty" gorm:"type:text"`
	Status      InquiryStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	RespondedAt *time.Time    `json:"responded_at"`

	// Relationships
	Listing Listing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	Buyer   User    `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Seller  User    `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}
