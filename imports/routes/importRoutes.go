package routes

import (
	"event-planner-backend/imports/controllers"
	"event-planner-backend/imports/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func ImportRouterInit(
	app *fiber.App,
	db *gorm.DB,
	importRepository repositories.ImportRepository,
	asynqClient *asynq.Client,
	redisClient *redis.Client,
) {
	importController := &controllers.ImportController{
		ImportRepo:  importRepository,
		DB:          db,
		AsynqClient: asynqClient,
		RedisClient: redisClient,
	}

	importRoutes := app.Group("/imports")
	importRoutes.Post("/upload", importController.UploadImportFileController)
	importRoutes.Get("/failures", importController.GetFilteredImportFailuresController)
	importRoutes.Get("/:id/progress", importController.GetImportProgressController)
}
