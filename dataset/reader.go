package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// Read parses a plain-text dataset from r. Compression options are ignored;
// use a Loader for compressed files.
func Read(r io.Reader, opts ...Option) (*Dataset, error) {
	o := applyOptions(opts)
	return read(r, &o)
}

func read(r io.Reader, o *options) (*Dataset, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.Comma = o.comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}

	seqIdx, labelIdx := -1, -1
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		switch {
		case name == o.sequenceColumn && seqIdx < 0:
			seqIdx = i
		case name == o.labelColumn && labelIdx < 0:
			labelIdx = i
		}
	}
	if seqIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, o.sequenceColumn)
	}
	if labelIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, o.labelColumn)
	}

	ds := &Dataset{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				ds.Dropped++
				continue
			}
			return nil, err
		}

		if seqIdx >= len(row) || labelIdx >= len(row) {
			ds.Dropped++
			continue
		}
		seq, label := row[seqIdx], row[labelIdx]
		if o.isNA(seq) || o.isNA(label) {
			ds.Dropped++
			continue
		}
		ds.Records = append(ds.Records, Record{Sequence: seq, Label: label})
	}

	return ds, nil
}

// readHeader returns a copy of the first non-blank row.
func readHeader(cr *csv.Reader) ([]string, error) {
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, fmt.Errorf("dataset: malformed header: %w", err)
			}
			return nil, err
		}
		if len(row) == 1 && strings.TrimSpace(strings.TrimPrefix(row[0], utf8BOM)) == "" {
			continue
		}
		return append([]string(nil), row...), nil
	}
}
