package kmer

import (
	"iter"
	"sort"
)

// FeatureVector is a sparse k-mer count vector of fixed dimension.
// Indices are strictly increasing and every stored count is positive.
type FeatureVector struct {
	dim     int
	indices []int
	counts  []int
}

func newFeatureVector(dim int, counts map[int]int) FeatureVector {
	fv := FeatureVector{
		dim:     dim,
		indices: make([]int, 0, len(counts)),
		counts:  make([]int, 0, len(counts)),
	}
	for i := range counts {
		fv.indices = append(fv.indices, i)
	}
	sort.Ints(fv.indices)
	for _, i := range fv.indices {
		fv.counts = append(fv.counts, counts[i])
	}
	return fv
}

// Dim returns the vector dimension, i.e. the vocabulary size.
func (v FeatureVector) Dim() int { return v.dim }

// NNZ returns the number of non-zero entries.
func (v FeatureVector) NNZ() int { return len(v.indices) }

// IsZero reports whether every entry is zero.
func (v FeatureVector) IsZero() bool { return len(v.indices) == 0 }

// At returns the count at feature index i.
func (v FeatureVector) At(i int) int {
	j := sort.SearchInts(v.indices, i)
	if j < len(v.indices) && v.indices[j] == i {
		return v.counts[j]
	}
	return 0
}

// Total returns the sum of all counts.
func (v FeatureVector) Total() int {
	total := 0
	for _, c := range v.counts {
		total += c
	}
	return total
}

// NonZero yields (index, count) pairs in increasing index order.
func (v FeatureVector) NonZero() iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		for j, i := range v.indices {
			if !yield(i, float64(v.counts[j])) {
				return
			}
		}
	}
}

// Dense returns the vector as a dense slice of length Dim.
func (v FeatureVector) Dense() []int {
	out := make([]int, v.dim)
	for j, i := range v.indices {
		out[i] = v.counts[j]
	}
	return out
}

// Equal reports whether v and o have the same dimension and entries.
func (v FeatureVector) Equal(o FeatureVector) bool {
	if v.dim != o.dim || len(v.indices) != len(o.indices) {
		return false
	}
	for j := range v.indices {
		if v.indices[j] != o.indices[j] || v.counts[j] != o.counts[j] {
			return false
		}
	}
	return true
}
