package naivebayes

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when Fit is called without samples.
	ErrInsufficientData = errors.New("naivebayes: insufficient training data")

	// ErrLengthMismatch is returned when the sample and label counts differ.
	ErrLengthMismatch = errors.New("naivebayes: samples and labels differ in length")

	// ErrEmptyLabel is returned for an empty class label.
	ErrEmptyLabel = errors.New("naivebayes: empty label")

	// ErrNegativeFeature is returned when a training sample has a negative count.
	ErrNegativeFeature = errors.New("naivebayes: negative feature value")

	// ErrFeatureIndex is returned when a vector yields an index outside [0, Dim).
	ErrFeatureIndex = errors.New("naivebayes: feature index out of range")

	// ErrInvalidAlpha is returned for a non-positive smoothing parameter.
	ErrInvalidAlpha = errors.New("naivebayes: alpha must be positive")

	// ErrInvalidPrior is returned when explicit class priors do not cover
	// every class with a positive value.
	ErrInvalidPrior = errors.New("naivebayes: invalid class prior")

	// ErrInvalidSnapshot is returned when a snapshot is internally inconsistent.
	ErrInvalidSnapshot = errors.New("naivebayes: invalid snapshot")
)

// DimensionMismatchError indicates a vector whose dimension differs from the
// model's feature count.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("naivebayes: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}
