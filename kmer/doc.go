// Package kmer turns nucleotide strings into fixed-length k-mer count vectors.
//
// A Vocabulary is fitted once on a training corpus: every distinct substring of
// length k (sliding window, stride 1) becomes a feature, indexed in
// lexicographic order. Transform then counts the k-mers of any string against
// that frozen vocabulary. K-mers that were never seen during Fit are ignored.
//
// # Usage
//
//	vocab, _ := kmer.Fit([]string{"ATGCGA", "GGCCTT"})
//	v := vocab.Transform("ATGC") // counts for "atg" and "tgc"
//
// # Preprocessing
//
// Input is lower-cased by default (see WithCaseSensitive) and runs of two or
// more whitespace characters collapse to a single space. No alphabet check is
// made: any character, including non-ACGT symbols, is part of a k-mer.
//
// # Thread Safety
//
// A Vocabulary is immutable after Fit and safe for concurrent use.
package kmer
