package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"event-planner-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImportStore is everything the orchestrator needs from persistence. The GORM
// implementation lives in imports/repositories.
type ImportStore interface {
	TagStore

	// ClaimImport atomically flips in_progress to true for an eligible import
	// (not in progress, rows remaining) and returns it with its File preloaded.
	// Returns ErrImportUnavailable when the claim is refused.
	ClaimImport(importID uuid.UUID) (*models.FileImport, error)
	// FinishImport clears in_progress. Called on completion and on fatal exit
	// so a job never stays claimed after its worker returns.
	FinishImport(importID uuid.UUID) error
	// UpdateCurrentLine persists the watermark after every row.
	UpdateCurrentLine(importID uuid.UUID, line int) error
	// LogImportError records one row-local failure.
	LogImportError(importID uuid.UUID, message string, line int) error

	GuestEmailExists(organizationID uuid.UUID, email string) (bool, error)
	// GetAccountByEmail returns nil, nil when no account matches.
	GetAccountByEmail(email string) (*models.Account, error)
	// CreateGuestWithTags writes the guest and its tag associations as one
	// atomic unit.
	CreateGuestWithTags(guest *models.Guest, tagIDs []uuid.UUID) error
}

// ImportSummary reports what one processing run did.
type ImportSummary struct {
	ImportID  uuid.UUID `json:"import_id"`
	Processed int       `json:"processed"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
}

// ImportProcessor drives one guest file import end to end: claim the job,
// walk the rows, validate, resolve tags, deduplicate, persist guests or log
// failures, and advance the watermark after every row. Only an unusable file
// or a refused claim aborts the run; every row-local error is recorded and
// processing continues.
type ImportProcessor struct {
	store     ImportStore
	importDir string
	logger    *zap.Logger
}

func NewImportProcessor(store ImportStore, importDir string, logger *zap.Logger) *ImportProcessor {
	return &ImportProcessor{
		store:     store,
		importDir: importDir,
		logger:    logger,
	}
}

// Process runs the import identified by importID. On a resumed job the first
// current_line rows are skipped without re-validation; the watermark is the
// single source of truth for what has been accounted for.
func (p *ImportProcessor) Process(ctx context.Context, importID uuid.UUID) (*ImportSummary, error) {
	fileImport, err := p.store.ClaimImport(importID)
	if err != nil {
		return nil, err
	}

	file := fileImport.File
	filePath := filepath.Join(p.importDir, file.FileName)

	p.logger.Info("file processing starts",
		zap.String("import_id", importID.String()),
		zap.String("file_name", file.FileName),
		zap.Int("resume_from", fileImport.CurrentLine),
	)

	reader, err := NewRowReader(filePath, file.FileType)
	if err != nil {
		p.release(importID)
		return nil, err
	}
	defer reader.Close()

	summary := &ImportSummary{ImportID: importID}
	line := 0
	resumeFrom := fileImport.CurrentLine

	for {
		if ctx.Err() != nil {
			p.release(importID)
			return nil, ctx.Err()
		}

		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			p.release(importID)
			return nil, fmt.Errorf("read row: %w", err)
		}

		line++
		if line <= resumeFrom {
			// Already accounted for in a previous run.
			continue
		}

		if reason := p.processRow(row, line, &file); reason != "" {
			if err := p.store.LogImportError(importID, reason, line); err != nil {
				p.release(importID)
				return nil, fmt.Errorf("log import error: %w", err)
			}
			summary.Failed++
		} else {
			summary.Succeeded++
		}
		summary.Processed++

		// The resumability checkpoint: persisted whether the row succeeded or
		// failed.
		if err := p.store.UpdateCurrentLine(importID, line); err != nil {
			p.release(importID)
			return nil, fmt.Errorf("update current line: %w", err)
		}
	}

	if err := p.store.FinishImport(importID); err != nil {
		return nil, fmt.Errorf("finish import: %w", err)
	}

	p.logger.Info("file processed",
		zap.String("import_id", importID.String()),
		zap.Int("processed", summary.Processed),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)

	return summary, nil
}

// processRow handles one data row. A non-empty return is the row-local
// failure reason to record; an empty return means a guest was created.
func (p *ImportProcessor) processRow(row map[string]string, line int, file *models.File) string {
	valid, reason := ValidateRow(row, line)
	if !valid {
		return reason
	}

	// ValidateRow already proved the tags field parses.
	tagNames, _ := ParseTags(row["tags"])

	tagIDs, err := ResolveTags(tagNames, file.OrganizationID, p.store)
	if err != nil {
		return err.Error()
	}
	if len(tagIDs) == 0 {
		return "No valid tags found"
	}

	location := ConcatenateAddress(
		row["address"],
		row["city"],
		row["state"],
		row["zip"],
		row["country"],
	)

	email := row["email"]
	exists, err := p.store.GuestEmailExists(file.OrganizationID, email)
	if err != nil {
		return err.Error()
	}
	if exists {
		return fmt.Sprintf("Guest with email %s already exists", email)
	}

	account, err := p.store.GetAccountByEmail(email)
	if err != nil {
		return err.Error()
	}

	// Account fields win over row values when present and non-empty.
	firstName := row["first_name"]
	lastName := row["last_name"]
	if account != nil {
		if account.FirstName != "" {
			firstName = account.FirstName
		}
		if account.LastName != "" {
			lastName = account.LastName
		}
	}

	if firstName == "" {
		return fmt.Sprintf("First name is required for guest with email %s", email)
	}

	guest := &models.Guest{
		ID:             uuid.New(),
		FirstName:      firstName,
		LastName:       lastName,
		Email:          email,
		PhoneNumber:    row["phone_number"],
		Location:       location,
		OrganizationID: file.OrganizationID,
		RSVPStatus:     models.RSVPPending,
	}

	if err := p.store.CreateGuestWithTags(guest, tagIDs); err != nil {
		return err.Error()
	}

	return ""
}

func (p *ImportProcessor) release(importID uuid.UUID) {
	if err := p.store.FinishImport(importID); err != nil {
		p.logger.Error("failed to release import claim",
			zap.String("import_id", importID.String()),
			zap.Error(err),
		)
	}
}
