// Package testutil provides testing utilities for dnaclass.
//
// This package is intended for use in tests, benchmarks and examples only.
// It generates deterministic DNA corpora with class-specific motifs and
// measures classifier accuracy against them.
//
// # Random Sequences
//
//	rng := testutil.NewRNG(seed)
//	seq := rng.Sequence(60)                   // uniform over ACGT
//	seq = rng.Mutate(seq, 0.05)               // 5% point mutations
//
// # Labeled Corpora
//
//	records := rng.Corpus(testutil.DefaultRegions, 300, 60)
//	data := testutil.CSV(records)
package testutil
