// Package dataset reads labeled DNA sequences from delimited text.
//
// A dataset is a CSV file with a header row. Two columns are required: one
// holding the sequence and one holding its class label. Everything else in
// the file is ignored. Rows with a missing sequence or label are dropped, using
// the same missing-value tokens as the pandas CSV reader, so a file prepared
// for a notebook loads to the same record set here.
//
// Files may be stored plain or compressed with gzip, zstd or LZ4 framing; the
// Loader picks the decoder from the file extension and falls back to sniffing
// magic bytes.
package dataset
