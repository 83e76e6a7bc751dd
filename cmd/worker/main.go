package main

import (
	"time"

	"event-planner-backend/config"
	"event-planner-backend/imports/repositories"
	"event-planner-backend/imports/services"
	"event-planner-backend/imports/tasks"
	"event-planner-backend/utils"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// The import worker consumes the "imports" queue: one job id per message,
// processed synchronously row-by-row. Concurrency across jobs comes from
// asynq's worker pool; within one job there is none.
func main() {
	// Initialize Zap logger
	config.InitLogger()

	// Load environment variables
	err := godotenv.Load(".env")
	if err != nil {
		config.Logger.Fatal("Error loading .env file", zap.Error(err))
	}

	db := config.ConfigureDatabase()
	importRepo := repositories.NewImportRepository(db)

	// Mailer for the post-import error report
	utils.InitializeMailer()

	importDir := config.GetEnv("IMPORT_DIR")
	if importDir == "" {
		importDir = "./uploads/imports"
		config.Logger.Warn("IMPORT_DIR not set, using default: ./uploads/imports")
	}

	processor := services.NewImportProcessor(importRepo, importDir, config.Logger)
	handler := tasks.NewImportTaskHandler(processor, importRepo)

	// A crashed worker leaves its claim set; reclaim imports whose watermark
	// has not moved in a while so they can be picked up again.
	reaper := cron.New()
	reaper.AddFunc("@every 10m", func() {
		reclaimed, err := importRepo.ReclaimStalledImports(15 * time.Minute)
		if err != nil {
			config.Logger.Error("Failed to reclaim stalled imports", zap.Error(err))
			return
		}
		if reclaimed > 0 {
			config.Logger.Warn("Reclaimed stalled imports", zap.Int64("count", reclaimed))
		}
	})
	reaper.Start()

	redisAddr := config.GetEnv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default for development
		config.Logger.Warn("REDIS_ADDRESS not set, using default: localhost:6379")
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: config.GetEnv("REDIS_PASSWORD"),
			DB:       0,
		},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				tasks.ImportQueue: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeGuestImport, handler)

	config.Logger.Info("Import worker starting", zap.String("redis", redisAddr))
	if err := srv.Run(mux); err != nil {
		config.Logger.Fatal("Import worker failed", zap.Error(err))
	}
}
