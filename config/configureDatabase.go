package config

import (
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"event-planner-backend/db/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// allModels defines all models that should be migrated and have permissions generated
// This is the only place you need to add new models
var allModels = []interface{}{
	// Tenancy
	&models.Organization{},
	&models.OrganizationTag{},

	// Accounts (read-only collaborator for imports)
	&models.Account{},

	// Guests
	&models.Guest{},
	&models.GuestTag{},

	// File imports
	&models.File{},
	&models.FileImport{},
	&models.FailedFileImport{},

	// Operational
	&models.EmailLog{},
	&models.Permission{},
}

func ConfigureDatabase() *gorm.DB {
	host := GetEnv("DB_HOST")
	user := GetEnv("POSTGRES_USER")
	password := GetEnv("POSTGRES_PASSWORD")
	dbname := GetEnv("POSTGRES_DB")
	port := GetEnv("DB_PORT")
	timezone := GetEnv("DB_TIMEZONE")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		host, user, password, dbname, port, timezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("[DB-CONNECT] Failed to connect to database: %v", err)
	}

	// Auto-migrate all models using the allModels slice
	err = db.AutoMigrate(allModels...)
	if err != nil {
		log.Fatalf("failed to migrate tables: %v", err)
	} else {
		log.Println("Tables migrated successfully")
	}

	// Define models to skip permission generation for (join tables, log tables)
	skipList := map[string]bool{
		"permissions":         true,
		"guest_tags":          true,
		"failed_file_imports": true,
		"email_logs":          true,
	}

	log.Println("[PERMISSIONS] Starting automatic CRUD permission generation...")

	for _, model := range allModels {
		modelType := reflect.TypeOf(model)
		if modelType.Kind() == reflect.Ptr {
			modelType = modelType.Elem()
		}

		// Get the actual GORM table name
		stmt := &gorm.Statement{DB: db}
		stmt.Parse(model)
		tableName := stmt.Schema.Table

		if skipList[tableName] {
			log.Printf("[PERMISSIONS] Skipping permission generation for table: %s", tableName)
			continue
		}

		// Use the model struct name as the resource (e.g., "Guest" -> "guests")
		resource := Pluralize(strings.ToLower(modelType.Name()))
		category := strings.ToLower(modelType.Name()) + "_management"

		if err := GenerateModelPermissions(db, resource, category, "system"); err != nil {
			log.Printf("[PERMISSIONS] Failed to generate permissions for %s: %v", resource, err)
		}
	}

	log.Println("[PERMISSIONS] Automatic permission generation completed")

	// Connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("[DB-POOL] Failed to get underlying DB connection: %v", err)
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	log.Println("[DB-POOL] Connection pool configured")
	log.Println("[DB-STATUS] Database setup complete")
	return db
}

// Pluralize converts singular resource names to plural
func Pluralize(singular string) string {
	specialCases := map[string]string{
		"category": "categories",
		"company":  "companies",
	}

	if plural, exists := specialCases[singular]; exists {
		return plural
	}

	if strings.HasSuffix(singular, "s") ||
		strings.HasSuffix(singular, "sh") ||
		strings.HasSuffix(singular, "ch") ||
		strings.HasSuffix(singular, "x") ||
		strings.HasSuffix(singular, "z") {
		return singular + "es"
	}

	if strings.HasSuffix(singular, "y") && len(singular) > 1 {
		beforeY := singular[len(singular)-2]
		if beforeY != 'a' && beforeY != 'e' && beforeY != 'i' && beforeY != 'o' && beforeY != 'u' {
			return singular[:len(singular)-1] + "ies"
		}
	}

	return singular + "s"
}

// getActionDescription returns descriptive text for each CRUD action
func getActionDescription(action, resource string) string {
	singularResource := strings.TrimSuffix(resource, "s")

	switch action {
	case "create":
		return fmt.Sprintf("Create new %s", resource)
	case "read":
		return fmt.Sprintf("View %s information", singularResource)
	case "update":
		return fmt.Sprintf("Update %s information", singularResource)
	case "delete":
		return fmt.Sprintf("Delete %s", resource)
	default:
		caser := cases.Title(language.English)
		return fmt.Sprintf("%s %s", caser.String(action), resource)
	}
}

// GenerateModelPermissions creates CRUD permissions for a model/resource
func GenerateModelPermissions(db *gorm.DB, resourceName, category, createdBy string) error {
	actions := []string{"create", "read", "update", "delete"}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, action := range actions {
			permissionName := fmt.Sprintf("%s.%s", strings.TrimSuffix(resourceName, "s"), action)
			description := getActionDescription(action, resourceName)

			permission := models.Permission{
				Name:        permissionName,
				Description: description,
				Resource:    resourceName,
				Action:      action,
				Category:    category,
				IsActive:    true,
				CreatedBy:   createdBy,
			}

			var existingPermission models.Permission
			result := tx.Where("name = ?", permissionName).FirstOrCreate(&existingPermission, permission)

			if result.Error != nil {
				return fmt.Errorf("failed to create/find permission %s: %w", permissionName, result.Error)
			}

			// If record existed (RowsAffected = 0), update it with current values
			if result.RowsAffected == 0 {
				updates := map[string]interface{}{
					"description": description,
					"resource":    resourceName,
					"action":      action,
					"category":    category,
					"is_active":   true,
				}

				if err := tx.Model(&existingPermission).Updates(updates).Error; err != nil {
					return fmt.Errorf("failed to update permission %s: %w", permissionName, err)
				}
			}
		}
		return nil
	})
}
