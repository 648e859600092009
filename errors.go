package dnaclass

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSnapshot is returned when a snapshot cannot be decoded or is
	// internally inconsistent.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrUnknownCodec is returned when a snapshot names a codec that is not built in.
	ErrUnknownCodec = errors.New("unknown codec")
)

// DataLoadError indicates that the training dataset could not be read.
//
// The underlying dataset or storage error can be accessed via errors.Unwrap.
type DataLoadError struct {
	Source string
	cause  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load dataset %q: %v", e.Source, e.cause)
}

func (e *DataLoadError) Unwrap() error { return e.cause }

// InsufficientDataError indicates that no model could be fitted because the
// cleaned training set is empty or yields no features.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type InsufficientDataError struct {
	// Records is the number of usable records that were available.
	Records int
	cause   error
}

func (e *InsufficientDataError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("insufficient training data: %d usable records", e.Records)
	}
	return fmt.Sprintf("insufficient training data: %d usable records: %v", e.Records, e.cause)
}

func (e *InsufficientDataError) Unwrap() error { return e.cause }
