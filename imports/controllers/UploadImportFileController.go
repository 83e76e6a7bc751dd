package controllers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"event-planner-backend/config"
	"event-planner-backend/db/models"
	"event-planner-backend/imports/services"
	"event-planner-backend/imports/tasks"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// UploadImportFileController registers a guest file for import: it stores the
// file, counts its rows once, creates the File + FileImport records and hands
// the job to the worker via the task queue.
func (ic *ImportController) UploadImportFileController(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Failed to get file"})
	}

	organizationID, err := uuid.Parse(c.FormValue("organization_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid 'organization_id' field in FormData"})
	}

	userEmail := c.FormValue("created_by")
	if userEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing 'created_by' field in FormData"})
	}

	// Declared format, falling back to the file extension
	fileType := models.FileType(c.FormValue("file_type"))
	if fileType == "" {
		switch strings.ToLower(filepath.Ext(file.Filename)) {
		case ".csv":
			fileType = models.CSVFileType
		case ".xlsx":
			fileType = models.XLSXFileType
		}
	}
	if fileType != models.CSVFileType && fileType != models.XLSXFileType {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Unsupported file type, expected csv or xlsx"})
	}

	importDir := config.GetEnv("IMPORT_DIR")
	if importDir == "" {
		importDir = "./uploads/imports"
	}
	if err := os.MkdirAll(importDir, 0755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to prepare import directory"})
	}

	// Prefix with a fresh id so concurrent uploads of the same filename never collide
	storedName := fmt.Sprintf("%s_%s", uuid.New().String(), file.Filename)
	savePath := filepath.Join(importDir, storedName)
	if err := c.SaveFile(file, savePath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to save file"})
	}

	totalLines, err := services.CountRows(savePath, fileType)
	if err != nil {
		os.Remove(savePath)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Failed to read uploaded file",
			"error":   err.Error(),
		})
	}

	fileRecord := models.File{
		ID:             uuid.New(),
		FileName:       storedName,
		FileFor:        "guests",
		FileType:       fileType,
		FileSize:       file.Size,
		OrganizationID: organizationID,
		RequestType:    models.ImportRequestType,
		CreatedBy:      userEmail,
	}
	fileImport := models.FileImport{
		ID:          uuid.New(),
		CurrentLine: 0,
		TotalLine:   totalLines,
		InProgress:  false,
		CreatedBy:   userEmail,
	}

	if err := ic.ImportRepo.CreateFileWithImport(&fileRecord, &fileImport); err != nil {
		config.Logger.Error("Failed to register import", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to register import"})
	}

	task, err := tasks.NewImportTask(fileImport.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to build import task"})
	}
	if _, err := ic.AsynqClient.Enqueue(task, asynq.Queue(tasks.ImportQueue)); err != nil {
		config.Logger.Error("Failed to enqueue import task",
			zap.String("import_id", fileImport.ID.String()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to queue import"})
	}

	config.Logger.Info("Import registered",
		zap.String("import_id", fileImport.ID.String()),
		zap.String("file_name", storedName),
		zap.Int("total_line", totalLines),
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "File registered for import",
		"data": fiber.Map{
			"import_id":  fileImport.ID,
			"file_id":    fileRecord.ID,
			"total_line": totalLines,
		},
	})
}
