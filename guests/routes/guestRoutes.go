package routes

import (
	"event-planner-backend/guests/controllers"
	"event-planner-backend/guests/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GuestRouterInit(
	app *fiber.App,
	db *gorm.DB,
	guestRepository repositories.GuestRepository,
) {
	guestController := &controllers.GuestController{
		GuestRepo: guestRepository,
		DB:        db,
	}

	guestRoutes := app.Group("/guests")
	guestRoutes.Get("/", guestController.GetFilteredGuestsController)
}
