package models

import (
	"time"

	"github.com/google/uuid"
)

// Permission is an auto-generated CRUD permission, produced per model at
// migration time.
type Permission struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"unique;not null" json:"name"` // e.g. "guest.create"
	Description string    `json:"description"`
	Resource    string    `gorm:"not null" json:"resource"`
	Action      string    `gorm:"not null" json:"action"`
	Category    string    `json:"category"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
