package dataset

import "errors"

var (
	// ErrNotFound is returned when the dataset file does not exist.
	ErrNotFound = errors.New("dataset: not found")

	// ErrEmptyFile is returned when the file has no header row.
	ErrEmptyFile = errors.New("dataset: empty file")

	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("dataset: missing column")
)
