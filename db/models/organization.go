package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the multi-tenancy boundary. Guests, tags and files all hang
// off one organization.
type Organization struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedBy string    `json:"created_by"` // Account email that owns the organization
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TagType discriminates what kind of records a tag applies to.
type TagType string

const (
	GuestTagType TagType = "guest"
	TableTagType TagType = "table"
)

// OrganizationTag is a tenant-scoped, name-keyed tag. Names are stored
// lowercased; the (organization_id, name) pair is unique.
type OrganizationTag struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_org_tag_name" json:"organization_id"`
	Name           string    `gorm:"not null;uniqueIndex:idx_org_tag_name" json:"name"`
	TagType        TagType   `gorm:"default:guest" json:"tag_type"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
