package services

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"event-planner-backend/db/models"

	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guests.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestCSVRowReader(t *testing.T) {
	path := writeTempCSV(t, "first_name,last_name,email\nJane,Doe,jane@example.com\nJohn,Smith,john@example.com\n")

	reader, err := NewRowReader(path, models.CSVFileType)
	if err != nil {
		t.Fatalf("NewRowReader: %v", err)
	}
	defer reader.Close()

	row, err := reader.Next()
	if err != nil {
		t.Fatalf("first Next: %v", err)
	}
	if row["first_name"] != "Jane" || row["email"] != "jane@example.com" {
		t.Errorf("unexpected first row: %v", row)
	}

	row, err = reader.Next()
	if err != nil {
		t.Fatalf("second Next: %v", err)
	}
	if row["first_name"] != "John" {
		t.Errorf("unexpected second row: %v", row)
	}

	if _, err = reader.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after last row, got %v", err)
	}
}

func TestCSVRowReaderShortRowLeavesKeysAbsent(t *testing.T) {
	path := writeTempCSV(t, "first_name,last_name,email\nJane,Doe\n")

	reader, err := NewRowReader(path, models.CSVFileType)
	if err != nil {
		t.Fatalf("NewRowReader: %v", err)
	}
	defer reader.Close()

	row, err := reader.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if _, ok := row["email"]; ok {
		t.Errorf("expected email key absent for short row, got %v", row)
	}
	if row["last_name"] != "Doe" {
		t.Errorf("unexpected row: %v", row)
	}
}

func TestXLSXRowReader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guests.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]string{"first_name", "email"})
	f.SetSheetRow(sheet, "A2", &[]string{"Jane", "jane@example.com"})
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	f.Close()

	reader, err := NewRowReader(path, models.XLSXFileType)
	if err != nil {
		t.Fatalf("NewRowReader: %v", err)
	}
	defer reader.Close()

	row, err := reader.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row["first_name"] != "Jane" || row["email"] != "jane@example.com" {
		t.Errorf("unexpected row: %v", row)
	}

	if _, err = reader.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after last row, got %v", err)
	}
}

func TestNewRowReaderUnsupportedFormat(t *testing.T) {
	_, err := NewRowReader("whatever.pdf", models.FileType("pdf"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestCountRowsExcludesHeader(t *testing.T) {
	path := writeTempCSV(t, "first_name,email\nJane,jane@example.com\nJohn,john@example.com\nAda,ada@example.com\n")

	count, err := CountRows(path, models.CSVFileType)
	if err != nil {
		t.Fatalf("CountRows: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}
