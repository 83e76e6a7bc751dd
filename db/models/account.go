package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered platform user. The import pipeline only reads
// accounts: when an imported guest's email matches an account, the account's
// name fields take precedence over the file row.
type Account struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	FirstName   string    `gorm:"not null" json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `gorm:"unique;not null" json:"email"`
	PhoneNumber string    `json:"phone_number"`
	IsVerified  bool      `gorm:"default:false" json:"is_verified"`
	IsDeleted   bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
