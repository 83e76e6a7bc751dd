package controllers

import (
	"event-planner-backend/imports/repositories"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type ImportController struct {
	ImportRepo  repositories.ImportRepository
	DB          *gorm.DB
	AsynqClient *asynq.Client
	RedisClient *redis.Client
}
