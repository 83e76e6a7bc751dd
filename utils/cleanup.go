package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// Retry configuration
const maxRetries = 3
const retryDelay = 2 * time.Minute

// CleanupExpiredFiles removes expired files older than the TTL
func CleanupExpiredFiles(filePath string, ttl time.Duration) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("error checking file: %v", err)
	}

	if time.Since(info.ModTime()) > ttl {
		err := os.Remove(filePath)
		if err != nil {
			return fmt.Errorf("error deleting expired file: %v", err)
		}
		log.Printf("File %s deleted successfully.", filePath)
	}
	return nil
}

// CleanupExpiredCache removes cached import progress entries from Redis
func CleanupExpiredCache(redisClient *redis.Client) error {
	ctx := context.Background()
	iter := redisClient.Scan(ctx, 0, "import_progress:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("error deleting cache key from Redis: %v", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning cache keys: %v", err)
	}
	return nil
}

// CleanupAllExpired handles the cleanup of generated report files and Redis cache entries
func CleanupAllExpired(fileTTL time.Duration, redisClient *redis.Client) error {
	files, err := os.ReadDir("./public/files")
	if err != nil {
		if os.IsNotExist(err) {
			return CleanupExpiredCache(redisClient)
		}
		return fmt.Errorf("error reading files directory: %v", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		filePath := fmt.Sprintf("./public/files/%s", file.Name())
		err := CleanupExpiredFiles(filePath, fileTTL)
		if err != nil {
			log.Println("Error cleaning up file:", err)
		}
	}

	err = CleanupExpiredCache(redisClient)
	if err != nil {
		return fmt.Errorf("error cleaning up cache: %v", err)
	}

	return nil
}

// RunScheduledCleanup runs cleanup tasks daily at 1 AM with retries and logs error messages on failure
func RunScheduledCleanup(redisClient *redis.Client) {
	c := cron.New()

	c.AddFunc("0 1 * * *", func() {
		log.Println("running scheduled cleanup task...")

		var retries int
		var cleanupSuccess bool

		for retries < maxRetries {
			err := CleanupAllExpired(24*time.Hour, redisClient)
			if err == nil {
				log.Println("cleanup successful!")
				cleanupSuccess = true
				break
			}
			log.Printf("cleanup failed: %v", err)
			retries++
			time.Sleep(retryDelay)
		}

		if !cleanupSuccess {
			log.Printf("cleanup task failed after %d retries. please check the system.", retries)
		}
	})

	c.Start()

	// Keep the goroutine alive so cron jobs keep executing
	select {}
}
