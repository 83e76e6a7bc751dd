package controllers

import (
	"strings"

	"event-planner-backend/guests/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GuestController struct {
	GuestRepo repositories.GuestRepository
	DB        *gorm.DB
}

func (gc *GuestController) GetFilteredGuestsController(c *fiber.Ctx) error {
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

	organizationID := cleanQueryParam(c.Query("organization_id"))
	rsvpStatus := cleanQueryParam(c.Query("rsvp_status"))
	email := cleanQueryParam(c.Query("email"))
	name := cleanQueryParam(c.Query("name"))
	tagID := cleanQueryParam(c.Query("tag_id"))
	startDate := cleanQueryParam(c.Query("start_date"))
	endDate := cleanQueryParam(c.Query("end_date"))

	// Guests are tenant-scoped; listing without an organization is not allowed
	if organizationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing organization_id parameter"})
	}

	offset := (page - 1) * pageSize

	filters := map[string]string{
		"organization_id": organizationID,
	}
	if rsvpStatus != "" {
		filters["rsvp_status"] = rsvpStatus
	}
	if email != "" {
		filters["email"] = email
	}
	if name != "" {
		filters["name"] = name
	}
	if tagID != "" {
		filters["tag_id"] = tagID
	}
	if startDate != "" {
		filters["start_date"] = startDate
	}
	if endDate != "" {
		filters["end_date"] = endDate
	}

	guests, total, err := gc.GuestRepo.GetFilteredGuests(pageSize, offset, filters)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to retrieve guests",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data":      guests,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
