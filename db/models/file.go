package models

import (
	"time"

	"github.com/google/uuid"
)

// FileType is the declared format of an uploaded file.
type FileType string

const (
	CSVFileType  FileType = "csv"
	XLSXFileType FileType = "xlsx"
)

// RequestType says what an uploaded file was registered for.
type RequestType string

const (
	ImportRequestType RequestType = "import"
	ExportRequestType RequestType = "export"
)

// File is the registered upload a FileImport points at.
type File struct {
	ID             uuid.UUID   `gorm:"type:uuid;primary_key;" json:"id"`
	FileName       string      `gorm:"not null" json:"file_name"`
	FileFor        string      `json:"file_for"` // e.g. "guests"
	FileType       FileType    `gorm:"default:csv" json:"file_type"`
	FileSize       int64       `json:"file_size"`
	OrganizationID uuid.UUID   `gorm:"type:uuid;index" json:"organization_id"`
	RequestType    RequestType `gorm:"default:import" json:"request_type"`
	IsDeleted      bool        `gorm:"default:false" json:"is_deleted"`
	CreatedBy      string      `json:"created_by"` // Email of the uploader
	CreatedAt      time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// FileImport tracks one import run over a registered file.
//
// CurrentLine is the resumability watermark: the count of data rows fully
// accounted for (guest created or failure logged), persisted after every row.
// InProgress is the claim flag; at most one worker holds it, enforced by a
// conditional update at the storage layer. UpdatedAt is touched by every
// watermark write and doubles as the claim heartbeat for the stalled-import
// reaper.
type FileImport struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	FileID      uuid.UUID `gorm:"type:uuid;not null;index" json:"file_id"`
	CurrentLine int       `gorm:"default:0" json:"current_line"`
	TotalLine   int       `json:"total_line"` // Data row count, computed once at registration
	InProgress  bool      `gorm:"default:false" json:"in_progress"`
	IsDeleted   bool      `gorm:"default:false" json:"is_deleted"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	File File `gorm:"foreignKey:FileID" json:"file"`
}

// FailedFileImport records one row that could not be imported.
type FailedFileImport struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ImportID     uuid.UUID `gorm:"type:uuid;not null;index" json:"import_id"`
	ErrorMessage string    `json:"error_message"` // The error message
	LineNumber   int       `json:"line_number"`   // 1-based data row the failure occurred at
	Resolved     bool      `gorm:"default:false" json:"resolved"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
