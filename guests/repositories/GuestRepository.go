package repositories

import (
	"errors"
	"fmt"
	"strings"

	"event-planner-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GuestRepository interface {
	GetGuestByID(guestID uuid.UUID) (*models.Guest, error)
	GetFilteredGuests(pageSize int, offset int, filters map[string]string) ([]models.Guest, int64, error)
}

type guestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) GuestRepository {
	return &guestRepository{
		db: db,
	}
}

func (r *guestRepository) GetGuestByID(guestID uuid.UUID) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.Preload("GuestTags").First(&guest, "id = ?", guestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("guest with id '%s' not found", guestID)
		}
		return nil, err
	}
	return &guest, nil
}

// GetFilteredGuests retrieves guests with filtering and pagination
func (r *guestRepository) GetFilteredGuests(pageSize int, offset int, filters map[string]string) ([]models.Guest, int64, error) {
	var guests []models.Guest
	var total int64

	db := r.db.Model(&models.Guest{}) // start a new query chain

	// Apply filters
	for key, value := range filters {
		switch key {
		case "organization_id":
			db = db.Where("organization_id = ?", value)
		case "rsvp_status":
			db = db.Where("rsvp_status = ?", strings.ToLower(value))
		case "email":
			db = db.Where("email ILIKE ?", "%"+value+"%")
		case "name":
			db = db.Where("first_name ILIKE ? OR last_name ILIKE ?", "%"+value+"%", "%"+value+"%")
		case "tag_id":
			db = db.Where("id IN (SELECT guest_id FROM guest_tags WHERE tag_id = ?)", value)
		case "start_date":
			db = db.Where("Date(created_at) >= ?", value)
		case "end_date":
			db = db.Where("Date(created_at) <= ?", value)
		}
	}

	// Count total records with filters applied
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination and ordering
	if err := db.Preload("GuestTags").Limit(pageSize).Offset(offset).Order("created_at DESC").Find(&guests).Error; err != nil {
		return nil, 0, err
	}

	return guests, total, nil
}
