package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"event-planner-backend/db/models"

	"github.com/xuri/excelize/v2"
)

// RowReader yields one header-keyed row mapping per data row of an import
// file. The sequence is single-pass and not restartable; callers open a fresh
// reader per run. Next returns io.EOF when the file is exhausted.
type RowReader interface {
	Next() (map[string]string, error)
	Close() error
}

// NewRowReader opens the file at path and decodes it according to the declared
// format. The first row supplies the field names. No content validation
// happens here.
func NewRowReader(path string, fileType models.FileType) (RowReader, error) {
	switch fileType {
	case models.CSVFileType:
		return newCSVRowReader(path)
	case models.XLSXFileType:
		return newXLSXRowReader(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileType)
	}
}

// CountRows counts the data rows of an import file, excluding the header.
// Used once at registration time to fix total_line.
func CountRows(path string, fileType models.FileType) (int, error) {
	reader, err := NewRowReader(path, fileType)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	count := 0
	for {
		_, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return 0, err
		}
		count++
	}
}

type csvRowReader struct {
	file   *os.File
	reader *csv.Reader
	header []string
}

func newCSVRowReader(path string) (*csvRowReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open import file: %w", err)
	}

	reader := csv.NewReader(file)
	// Ragged rows are a content problem, not a decoding problem; a short row
	// simply produces a mapping with absent keys and the validator names the
	// missing field.
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read header row: %w", err)
	}

	return &csvRowReader{file: file, reader: reader, header: header}, nil
}

func (r *csvRowReader) Next() (map[string]string, error) {
	record, err := r.reader.Read()
	if err != nil {
		return nil, err
	}
	return mapRow(r.header, record), nil
}

func (r *csvRowReader) Close() error {
	return r.file.Close()
}

type xlsxRowReader struct {
	file   *excelize.File
	rows   *excelize.Rows
	header []string
}

func newXLSXRowReader(path string) (*xlsxRowReader, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel file: %w", err)
	}

	sheetName := file.GetSheetName(0)
	rows, err := file.Rows(sheetName)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read rows from Excel sheet: %w", err)
	}

	if !rows.Next() {
		rows.Close()
		file.Close()
		return nil, fmt.Errorf("read header row: %w", io.ErrUnexpectedEOF)
	}
	header, err := rows.Columns()
	if err != nil {
		rows.Close()
		file.Close()
		return nil, fmt.Errorf("read header row: %w", err)
	}

	return &xlsxRowReader{file: file, rows: rows, header: header}, nil
}

func (r *xlsxRowReader) Next() (map[string]string, error) {
	if !r.rows.Next() {
		return nil, io.EOF
	}
	record, err := r.rows.Columns()
	if err != nil {
		return nil, err
	}
	return mapRow(r.header, record), nil
}

func (r *xlsxRowReader) Close() error {
	rowsErr := r.rows.Close()
	fileErr := r.file.Close()
	if rowsErr != nil {
		return rowsErr
	}
	return fileErr
}

// mapRow zips the header with one record. Columns beyond the header are
// dropped; missing trailing columns stay absent from the map.
func mapRow(header, record []string) map[string]string {
	row := make(map[string]string, len(header))
	for i, key := range header {
		if i >= len(record) {
			break
		}
		row[key] = record[i]
	}
	return row
}
