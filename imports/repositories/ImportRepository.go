package repositories

import (
	"errors"
	"strings"
	"time"

	"event-planner-backend/db/models"
	"event-planner-backend/imports/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImportRepository interface {
	services.ImportStore

	CreateFileWithImport(file *models.File, fileImport *models.FileImport) error
	GetImportByID(importID uuid.UUID) (*models.FileImport, error)
	CountImportFailures(importID uuid.UUID) (int64, error)
	ListImportFailures(importID uuid.UUID) ([]models.FailedFileImport, error)
	GetFilteredImportFailures(pageSize int, offset int, filters map[string]string) ([]models.FailedFileImport, int64, error)
	CreateEmailLog(emailLog *models.EmailLog) error
	ReclaimStalledImports(olderThan time.Duration) (int64, error)
}

type importRepository struct {
	db *gorm.DB
}

func NewImportRepository(db *gorm.DB) ImportRepository {
	return &importRepository{
		db: db,
	}
}

// CreateFileWithImport registers the uploaded file and its import record in
// one transaction.
func (r *importRepository) CreateFileWithImport(file *models.File, fileImport *models.FileImport) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(file).Error; err != nil {
			return err
		}
		fileImport.FileID = file.ID
		return tx.Create(fileImport).Error
	})
}

func (r *importRepository) GetImportByID(importID uuid.UUID) (*models.FileImport, error) {
	var fileImport models.FileImport
	err := r.db.Preload("File").First(&fileImport, "id = ?", importID).Error
	if err != nil {
		return nil, err
	}
	return &fileImport, nil
}

// ClaimImport is the at-most-one-worker guard: a single conditional UPDATE
// flips in_progress for an eligible import, so two workers racing for the
// same job cannot both win.
func (r *importRepository) ClaimImport(importID uuid.UUID) (*models.FileImport, error) {
	result := r.db.Model(&models.FileImport{}).
		Where("id = ? AND in_progress = ? AND current_line < total_line", importID, false).
		Update("in_progress", true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, services.ErrImportUnavailable
	}

	return r.GetImportByID(importID)
}

func (r *importRepository) FinishImport(importID uuid.UUID) error {
	return r.db.Model(&models.FileImport{}).
		Where("id = ?", importID).
		Update("in_progress", false).Error
}

func (r *importRepository) UpdateCurrentLine(importID uuid.UUID, line int) error {
	return r.db.Model(&models.FileImport{}).
		Where("id = ?", importID).
		Update("current_line", line).Error
}

func (r *importRepository) LogImportError(importID uuid.UUID, message string, line int) error {
	failed := models.FailedFileImport{
		ID:           uuid.New(),
		ImportID:     importID,
		ErrorMessage: message,
		LineNumber:   line,
	}
	return r.db.Create(&failed).Error
}

func (r *importRepository) CountImportFailures(importID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.FailedFileImport{}).
		Where("import_id = ?", importID).
		Count(&count).Error
	return count, err
}

func (r *importRepository) ListImportFailures(importID uuid.UUID) ([]models.FailedFileImport, error) {
	var failures []models.FailedFileImport
	err := r.db.Where("import_id = ?", importID).
		Order("line_number ASC").
		Find(&failures).Error
	return failures, err
}

// GetFilteredImportFailures retrieves failure records with filtering and pagination
func (r *importRepository) GetFilteredImportFailures(pageSize int, offset int, filters map[string]string) ([]models.FailedFileImport, int64, error) {
	var failures []models.FailedFileImport
	var total int64

	db := r.db.Model(&models.FailedFileImport{}) // start a new query chain

	// Apply filters
	for key, value := range filters {
		switch key {
		case "import_id":
			db = db.Where("import_id = ?", value)
		case "resolved":
			if strings.ToLower(value) == "true" {
				db = db.Where("resolved = ?", true)
			} else if strings.ToLower(value) == "false" {
				db = db.Where("resolved = ?", false)
			}
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
	if err := db.Limit(pageSize).Offset(offset).Order("created_at DESC").Find(&failures).Error; err != nil {
		return nil, 0, err
	}

	return failures, total, nil
}

func (r *importRepository) GetOrganizationTagByName(organizationID uuid.UUID, name string) (*models.OrganizationTag, error) {
	var tag models.OrganizationTag
	err := r.db.First(&tag, "organization_id = ? AND name = ?", organizationID, name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

func (r *importRepository) CreateOrganizationTag(tag *models.OrganizationTag) error {
	return r.db.Create(tag).Error
}

func (r *importRepository) GuestEmailExists(organizationID uuid.UUID, email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Guest{}).
		Where("organization_id = ? AND email = ?", organizationID, email).
		Count(&count).Error
	return count > 0, err
}

func (r *importRepository) GetAccountByEmail(email string) (*models.Account, error) {
	var account models.Account
	err := r.db.First(&account, "email = ? AND is_deleted = ?", email, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// CreateGuestWithTags writes the guest and its tag associations as one atomic
// unit so a failed write cannot leave orphaned associations behind.
func (r *importRepository) CreateGuestWithTags(guest *models.Guest, tagIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(guest).Error; err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			guestTag := models.GuestTag{
				ID:      uuid.New(),
				GuestID: guest.ID,
				TagID:   tagID,
			}
			if err := tx.Create(&guestTag).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *importRepository) CreateEmailLog(emailLog *models.EmailLog) error {
	return r.db.Create(emailLog).Error
}

// ReclaimStalledImports clears claims whose last watermark write is older than
// the threshold. A crashed worker leaves in_progress set; updated_at is
// touched by every row, so it acts as the heartbeat.
func (r *importRepository) ReclaimStalledImports(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := r.db.Model(&models.FileImport{}).
		Where("in_progress = ? AND updated_at < ?", true, cutoff).
		Update("in_progress", false)
	return result.RowsAffected, result.Error
}
