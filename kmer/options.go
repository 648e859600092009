package kmer

import (
	"regexp"
	"strings"
)

// DefaultK is the k-mer length used when WithK is not given.
const DefaultK = 3

type options struct {
	k             int
	caseSensitive bool
	minDocFreq    int
}

// Option configures Fit and NewVocabulary.
type Option func(*options)

// WithK sets the k-mer length. It must be at least 1.
func WithK(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithCaseSensitive disables lower-casing, so "ATG" and "atg" become
// different features.
func WithCaseSensitive() Option {
	return func(o *options) {
		o.caseSensitive = true
	}
}

// WithMinDocFreq drops k-mers that occur in fewer than n training sequences.
// The default of 1 keeps every observed k-mer.
func WithMinDocFreq(n int) Option {
	return func(o *options) {
		o.minDocFreq = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		k:          DefaultK,
		minDocFreq: 1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

var whitespaceRun = regexp.MustCompile(`\s\s+`)

func preprocess(text string, caseSensitive bool) string {
	if !caseSensitive {
		text = strings.ToLower(text)
	}
	return whitespaceRun.ReplaceAllString(text, " ")
}
