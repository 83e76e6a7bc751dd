package main

import (
	"context"

	"event-planner-backend/config"
	"event-planner-backend/middleware"
	"event-planner-backend/utils"

	// Repositories
	guests_repositories "event-planner-backend/guests/repositories"
	imports_repositories "event-planner-backend/imports/repositories"

	// Routes
	guest_routes "event-planner-backend/guests/routes"
	import_routes "event-planner-backend/imports/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize Zap logger
	config.InitLogger()

	// Load environment variables
	err := godotenv.Load(".env")
	if err != nil {
		config.Logger.Fatal("Error loading .env file", zap.Error(err))
	}

	app := fiber.New()

	// Apply CORS middleware from middleware package
	middleware.InitCors(app)

	// Initialize database and configs
	db := config.ConfigureDatabase()
	ctx := context.Background()

	port := config.GetEnv("PORT")
	if port == "" {
		port = "8080"
		config.Logger.Warn("PORT not set, using default: 8080")
	}

	// Redis client for Asynq and progress caching
	redisAddr := config.GetEnv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default for development
		config.Logger.Warn("REDIS_ADDRESS not set, using default: localhost:6379")
	}

	redisClient := config.InitRedisServer(ctx)
	// Note: asynq.RedisClientOpt uses its own Redis client internally.

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: config.GetEnv("REDIS_PASSWORD"),
		DB:       0,
	}

	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	// Initialize the mailer
	utils.InitializeMailer()
	if utils.GetMailer() == nil {
		config.Logger.Fatal("Mailer not initialized")
	}

	// Serve static files (generated error reports live under /public/files)
	app.Static("/public", "./public")
	app.Static("/uploads", "./uploads")

	// Repositories
	importRepo := imports_repositories.NewImportRepository(db)
	guestRepo := guests_repositories.NewGuestRepository(db)

	// Routes
	import_routes.ImportRouterInit(app, db, importRepo, asynqClient, redisClient)
	guest_routes.GuestRouterInit(app, db, guestRepo)

	// Background cleanup tasks
	go utils.RunScheduledCleanup(redisClient)

	// Start the application
	config.Logger.Info("Server starting", zap.String("port", port))
	config.Logger.Fatal("Server failed", zap.String("port", port), zap.Error(app.Listen(":"+port)))
}
