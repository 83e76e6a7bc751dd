package controllers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const progressCacheTTL = 5 * time.Second

// GetImportProgressController reports the watermark of one import. Responses
// are cached briefly in Redis since clients tend to poll this endpoint.
func (ic *ImportController) GetImportProgressController(c *fiber.Ctx) error {
	importID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid import id"})
	}

	cacheKey := "import_progress:" + importID.String()
	if ic.RedisClient != nil {
		if cached, err := ic.RedisClient.Get(c.Context(), cacheKey).Result(); err == nil {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.SendString(cached)
		}
	}

	fileImport, err := ic.ImportRepo.GetImportByID(importID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Import not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to fetch import"})
	}

	failedCount, err := ic.ImportRepo.CountImportFailures(importID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to count import failures"})
	}

	response := fiber.Map{
		"import_id":    fileImport.ID,
		"file_name":    fileImport.File.FileName,
		"current_line": fileImport.CurrentLine,
		"total_line":   fileImport.TotalLine,
		"in_progress":  fileImport.InProgress,
		"failed_count": failedCount,
		"done":         fileImport.CurrentLine >= fileImport.TotalLine && !fileImport.InProgress,
	}

	if ic.RedisClient != nil {
		if payload, err := json.Marshal(response); err == nil {
			ic.RedisClient.Set(c.Context(), cacheKey, payload, progressCacheTTL)
		}
	}

	return c.Status(fiber.StatusOK).JSON(response)
}
