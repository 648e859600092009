package dataset

import (
	"context"
	"io"
)

const (
	// DefaultSequenceColumn is the header name of the sequence column.
	DefaultSequenceColumn = "sequence"
	// DefaultLabelColumn is the header name of the label column.
	DefaultLabelColumn = "label"
)

// Compression selects how the raw file bytes are decoded.
type Compression int

const (
	// CompressionAuto chooses by extension, then by magic bytes.
	CompressionAuto Compression = iota
	// CompressionNone reads the file as plain text.
	CompressionNone
	// CompressionGzip reads a gzip stream.
	CompressionGzip
	// CompressionZstd reads a zstd stream.
	CompressionZstd
	// CompressionLZ4 reads an LZ4 frame stream.
	CompressionLZ4
)

// String returns the compression name.
func (c Compression) String() string {
	switch c {
	case CompressionAuto:
		return "auto"
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// defaultNAValues mirrors the pandas read_csv default missing-value set.
var defaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

type options struct {
	sequenceColumn string
	labelColumn    string
	naValues       map[string]struct{}
	comma          rune
	compression    Compression
	wrapReader     func(context.Context, io.Reader) io.Reader
}

// Option configures Read and Loader.
type Option func(*options)

// WithColumns sets the header names of the sequence and label columns.
// Empty names keep the defaults.
func WithColumns(sequence, label string) Option {
	return func(o *options) {
		if sequence != "" {
			o.sequenceColumn = sequence
		}
		if label != "" {
			o.labelColumn = label
		}
	}
}

// WithNAValues adds tokens that mark a field as missing, on top of the
// default set.
func WithNAValues(tokens ...string) Option {
	return func(o *options) {
		for _, t := range tokens {
			o.naValues[t] = struct{}{}
		}
	}
}

// WithComma sets the field delimiter. The default is ','.
func WithComma(r rune) Option {
	return func(o *options) {
		o.comma = r
	}
}

// WithCompression forces a decoder instead of detecting one.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithReadWrapper wraps the raw stream before decompression, for example to
// pace reads from remote storage. It applies to Loader only.
func WithReadWrapper(wrap func(ctx context.Context, r io.Reader) io.Reader) Option {
	return func(o *options) {
		o.wrapReader = wrap
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		sequenceColumn: DefaultSequenceColumn,
		labelColumn:    DefaultLabelColumn,
		naValues:       make(map[string]struct{}, len(defaultNAValues)),
		comma:          ',',
		compression:    CompressionAuto,
	}
	for _, v := range defaultNAValues {
		o.naValues[v] = struct{}{}
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) isNA(field string) bool {
	_, ok := o.naValues[field]
	return ok
}
