package models

import (
	"time"

	"github.com/google/uuid"
)

// RSVPStatus tracks a guest's reply to their invite.
type RSVPStatus string

const (
	RSVPAccepted RSVPStatus = "accepted"
	RSVPDeclined RSVPStatus = "declined"
	RSVPPending  RSVPStatus = "pending"
)

// Guest is a tenant-scoped event guest. The import pipeline creates guests but
// never updates existing ones; a duplicate email within the organization is a
// row-level failure.
type Guest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	FirstName   string     `gorm:"not null" json:"first_name"`
	LastName    string     `gorm:"default:''" json:"last_name"`
	Email       string     `gorm:"not null;index" json:"email"`
	PhoneNumber string     `gorm:"default:''" json:"phone_number"`
	Location    string     `gorm:"default:''" json:"location"` // Concatenated address/city/state/zip/country

	OrganizationID uuid.UUID  `gorm:"type:uuid;index" json:"organization_id"`
	RSVPStatus     RSVPStatus `gorm:"default:pending" json:"rsvp_status"`
	InviteCode     string     `gorm:"default:''" json:"invite_code"`

	GuestTags []GuestTag `gorm:"foreignKey:GuestID" json:"guest_tags"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// GuestTag joins a guest to an organization tag. Created once per
// (guest, tag) pair on a successful import row.
type GuestTag struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	GuestID   uuid.UUID `gorm:"type:uuid;not null;index" json:"guest_id"`
	TagID     uuid.UUID `gorm:"type:uuid;not null;index" json:"tag_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
