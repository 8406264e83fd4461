// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username      string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email         string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash  string     `json:"-" gorm:"size:255"`
	ExternalID    string     `json:"external_id,omitempty" gorm:"uniqueIndex;size:255"`
	Role          UserRole   `json:"role" gorm:"type:varchar(20);default:'buyer';not null"`
	VerifiedMiner bool       `json:"verified_miner" gorm:"default:false"`
	Status        UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	ProfileData   JSONB      `json:"profile_data" gorm:"type:jsonb"`
	LastSeenAt    *time.Time `json:"last_seen_at"`

	// Relationships
	Listings     []Listing           `json:"listings,omitempty" gorm:"foreignKey:SellerID"`
	Applications []SellerApplication `json:"applications,omitempty" gorm:"foreignKey:ApplicantID"`
	Purchases    []Transaction       `json:"purchases,omitempty" gorm:"foreignKey:BuyerID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
