package services

import "errors"

var (
	// ErrUnsupportedFormat aborts a whole job: the declared file format is
	// neither csv nor xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrImportUnavailable means the claim was refused: the import is already
	// held by another worker or has no rows left to process.
	ErrImportUnavailable = errors.New("import already in progress or completed")
)
