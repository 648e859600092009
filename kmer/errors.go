package kmer

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("kmer: k must be positive")

	// ErrEmptyVocabulary is returned when fitting produced no k-mers, for
	// example because every training sequence is shorter than k.
	ErrEmptyVocabulary = errors.New("kmer: empty vocabulary")
)

// InvalidTermError reports a term that cannot be part of a vocabulary.
type InvalidTermError struct {
	Term   string
	Reason string
}

func (e *InvalidTermError) Error() string {
	return fmt.Sprintf("kmer: invalid term %q: %s", e.Term, e.Reason)
}
