package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetFilteredImportFailuresController lists failure records with filtering and
// pagination.
func (ic *ImportController) GetFilteredImportFailuresController(c *fiber.Ctx) error {
	// Parse query parameters
	pageSize := c.QueryInt("page_size", 10)
	if pageSize <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid page_size parameter"})
	}

	page := c.QueryInt("page", 1)
	if page <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid page parameter"})
	}

	// Clean up and sanitize the query parameters
	cleanQueryParam := func(param string) string {
		param = strings.TrimSpace(param)
		if param == "" || strings.ToLower(param) == "null" {
			return ""
		}
		return param
	}

	importID := cleanQueryParam(c.Query("import_id"))
	resolved := cleanQueryParam(c.Query("resolved"))
	startDate := cleanQueryParam(c.Query("start_date"))
	endDate := cleanQueryParam(c.Query("end_date"))

	offset := (page - 1) * pageSize

	filters := make(map[string]string)
	if importID != "" {
		filters["import_id"] = importID
	}
	if resolved != "" {
		filters["resolved"] = resolved
	}
	if startDate != "" {
		filters["start_date"] = startDate
	}
	if endDate != "" {
		filters["end_date"] = endDate
	}

	failures, total, err := ic.ImportRepo.GetFilteredImportFailures(pageSize, offset, filters)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to retrieve import failures",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":      failures,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
