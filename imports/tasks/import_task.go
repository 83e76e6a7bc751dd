package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"event-planner-backend/config"
	"event-planner-backend/db/models"
	"event-planner-backend/imports/repositories"
	"event-planner-backend/imports/services"
	"event-planner-backend/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeGuestImport is the asynq task type for a guest file import. The payload
// carries only the import id; everything else lives in the database.
const TypeGuestImport = "imports:guest-file"

// ImportQueue is the asynq queue imports are routed through.
const ImportQueue = "imports"

type ImportTaskPayload struct {
	ImportID uuid.UUID `json:"import_id"`
}

// NewImportTask builds the task the upload controller enqueues.
func NewImportTask(importID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(ImportTaskPayload{ImportID: importID})
	if err != nil {
		return nil, fmt.Errorf("marshal import task payload: %w", err)
	}
	return asynq.NewTask(TypeGuestImport, payload), nil
}

// importProcessor is what the handler needs from the orchestrator.
type importProcessor interface {
	Process(ctx context.Context, importID uuid.UUID) (*services.ImportSummary, error)
}

// ImportTaskHandler runs one import per task message and, when rows failed,
// mails an error report to the registrant.
type ImportTaskHandler struct {
	processor importProcessor
	repo      repositories.ImportRepository
}

func NewImportTaskHandler(processor importProcessor, repo repositories.ImportRepository) *ImportTaskHandler {
	return &ImportTaskHandler{
		processor: processor,
		repo:      repo,
	}
}

func (h *ImportTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ImportTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal import task payload: %v: %w", err, asynq.SkipRetry)
	}

	summary, err := h.processor.Process(ctx, payload.ImportID)
	if errors.Is(err, services.ErrImportUnavailable) {
		// Duplicate delivery or a concurrent claim; the import's progress is
		// untouched and retrying would not help.
		config.Logger.Warn("import not claimable, dropping task",
			zap.String("import_id", payload.ImportID.String()),
		)
		return nil
	}
	if err != nil {
		return err
	}

	if summary.Failed > 0 {
		h.sendFailureReport(payload.ImportID, summary)
	}

	return nil
}

// sendFailureReport is best-effort: a report that cannot be generated or
// mailed never fails the completed import.
func (h *ImportTaskHandler) sendFailureReport(importID uuid.UUID, summary *services.ImportSummary) {
	fileImport, err := h.repo.GetImportByID(importID)
	if err != nil {
		config.Logger.Warn("failed to load import for report", zap.Error(err))
		return
	}

	failures, err := h.repo.ListImportFailures(importID)
	if err != nil {
		config.Logger.Warn("failed to list import failures for report", zap.Error(err))
		return
	}

	headers := []string{"LineNumber", "ErrorMessage"}
	filePath, err := utils.GenerateExcel(failures, "guest_import_errors_"+importID.String(), headers)
	if err != nil {
		config.Logger.Warn("failed to generate error report", zap.Error(err))
		return
	}

	downloadLink := utils.GenerateDownloadLink(filePath)
	message := fmt.Sprintf(
		"Your guest import finished with %d of %d rows failing. Please find the attached report with the rows that could not be imported.",
		summary.Failed, summary.Processed,
	)
	subject := "Guest Import Errors - " + time.Now().Format("2006-01-02 15:04:05")

	recipient := fileImport.CreatedBy
	if recipient == "" {
		recipient = fileImport.File.CreatedBy
	}

	if err := utils.SendEmail(recipient, message, subject, downloadLink); err != nil {
		config.Logger.Warn("failed to send error report email", zap.Error(err))
		return
	}

	active := true
	emailLog := models.EmailLog{
		ID:             uuid.New(),
		Recipient:      recipient,
		Subject:        subject,
		Message:        message,
		SentAt:         time.Now(),
		Active:         &active,
		AttachmentPath: downloadLink,
	}
	if err := h.repo.CreateEmailLog(&emailLog); err != nil {
		config.Logger.Warn("failed to log report email", zap.Error(err))
	}
}
