package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"event-planner-backend/config"

	"github.com/xuri/excelize/v2"
)

// EnsureDirectoryExists ensures the specified directory exists before file saving
func EnsureDirectoryExists(filePath string) error {
	dir := filepath.Dir(filePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return fmt.Errorf("error creating directory: %v", err)
		}
	}
	return nil
}

// GenerateExcel creates an Excel file from the provided data. Headers must
// match exported field names of the slice's element type.
func GenerateExcel(data interface{}, taskName string, headers []string) (string, error) {
	// Ensure the directory exists before attempting to save the file
	dirPath := "./public/files"
	err := EnsureDirectoryExists(dirPath + "/")
	if err != nil {
		log.Printf("Failed to ensure directory exists: %v", err)
		return "", fmt.Errorf("failed to ensure directory exists: %v", err)
	}

	// Create a new Excel file
	f := excelize.NewFile()

	sheetName := "Sheet1"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}

	// Write headers dynamically
	for col, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune(65+col))) // A1, B1, C1, etc.
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return "", fmt.Errorf("error setting header %s: %v", header, err)
		}
	}

	// Use reflection to loop over the provided data
	dataSlice := reflect.ValueOf(data)
	if dataSlice.Kind() != reflect.Slice {
		return "", fmt.Errorf("expected data to be a slice")
	}

	for row := 0; row < dataSlice.Len(); row++ {
		item := dataSlice.Index(row).Interface()

		for col, header := range headers {
			field := reflect.ValueOf(item).FieldByName(header)
			if !field.IsValid() {
				log.Printf("Field %s not found for row %d", header, row+2)
				continue
			}
			cell := fmt.Sprintf("%s%d", string(rune(65+col)), row+2)
			if err := f.SetCellValue(sheetName, cell, field.Interface()); err != nil {
				return "", fmt.Errorf("error setting value for field %s (Row: %d): %v", header, row+2, err)
			}
		}
	}

	f.SetActiveSheet(index)

	// Generate filename using taskName and current timestamp
	fileName := fmt.Sprintf("%s_%s.xlsx", taskName, time.Now().Format("2006-01-02_15-04-05"))
	filePath := fmt.Sprintf("/public/files/%s", fileName)
	relativeFilePath := fmt.Sprintf("%s/%s", dirPath, fileName)

	if err := f.SaveAs(relativeFilePath); err != nil {
		log.Printf("Error saving Excel file: %v", err)
		return "", err
	}

	return filePath, nil
}

// GenerateDownloadLink turns a public file path into an absolute URL.
func GenerateDownloadLink(filePath string) string {
	baseURL := config.GetEnv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return baseURL + filePath
}
