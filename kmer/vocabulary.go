package kmer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring/v2"
)

// Vocabulary maps every k-mer observed during Fit to a stable feature index.
type Vocabulary struct {
	k             int
	caseSensitive bool
	terms         []string
	index         map[string]int
	// postings[i] holds the training sequence indices that contain terms[i].
	// Nil for vocabularies restored with NewVocabulary.
	postings []*roaring.Bitmap
}

// Fit builds a Vocabulary from the k-mers observed in corpus.
func Fit(corpus []string, optFns ...Option) (*Vocabulary, error) {
	o := applyOptions(optFns)
	if o.k < 1 {
		return nil, ErrInvalidK
	}

	postings := make(map[string]*roaring.Bitmap)
	for i, doc := range corpus {
		forEachKmer(preprocess(doc, o.caseSensitive), o.k, func(term string) {
			bm, ok := postings[term]
			if !ok {
				bm = roaring.New()
				// Clone so map keys do not pin the whole source string.
				postings[strings.Clone(term)] = bm
			}
			bm.Add(uint32(i))
		})
	}

	terms := make([]string, 0, len(postings))
	for term, bm := range postings {
		if bm.GetCardinality() < uint64(o.minDocFreq) {
			continue
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return nil, ErrEmptyVocabulary
	}
	sort.Strings(terms)

	v := &Vocabulary{
		k:             o.k,
		caseSensitive: o.caseSensitive,
		terms:         terms,
		index:         make(map[string]int, len(terms)),
		postings:      make([]*roaring.Bitmap, len(terms)),
	}
	for i, term := range terms {
		v.index[term] = i
		bm := postings[term]
		bm.RunOptimize()
		v.postings[i] = bm
	}
	return v, nil
}

// FitTransform fits a Vocabulary on corpus and returns the feature vector of
// every corpus entry, in order.
func FitTransform(corpus []string, optFns ...Option) (*Vocabulary, []FeatureVector, error) {
	v, err := Fit(corpus, optFns...)
	if err != nil {
		return nil, nil, err
	}
	return v, v.TransformAll(corpus), nil
}

// NewVocabulary restores a Vocabulary from an explicit term list, such as one
// taken from Terms. Terms are re-sorted; document frequencies are unknown
// and reported as zero.
func NewVocabulary(terms []string, optFns ...Option) (*Vocabulary, error) {
	o := applyOptions(optFns)
	if o.k < 1 {
		return nil, ErrInvalidK
	}
	if len(terms) == 0 {
		return nil, ErrEmptyVocabulary
	}

	sorted := make([]string, len(terms))
	copy(sorted, terms)
	sort.Strings(sorted)

	v := &Vocabulary{
		k:             o.k,
		caseSensitive: o.caseSensitive,
		terms:         sorted,
		index:         make(map[string]int, len(sorted)),
	}
	for i, term := range sorted {
		if n := utf8.RuneCountInString(term); n != o.k {
			return nil, &InvalidTermError{Term: term, Reason: "length differs from k"}
		}
		if _, dup := v.index[term]; dup {
			return nil, &InvalidTermError{Term: term, Reason: "duplicate"}
		}
		v.index[term] = i
	}
	return v, nil
}

// K returns the k-mer length.
func (v *Vocabulary) K() int { return v.k }

// CaseSensitive reports whether input is matched without lower-casing.
func (v *Vocabulary) CaseSensitive() bool { return v.caseSensitive }

// Len returns the number of features.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Terms returns a copy of the k-mers in feature index order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Term returns the k-mer at feature index i.
func (v *Vocabulary) Term(i int) string { return v.terms[i] }

// Index returns the feature index of term. The term is matched as is, without
// preprocessing.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// DocFreq returns the number of training sequences that contain term.
func (v *Vocabulary) DocFreq(term string) int {
	i, ok := v.index[term]
	if !ok || v.postings == nil {
		return 0
	}
	return int(v.postings[i].GetCardinality())
}

// Transform counts the k-mers of seq that are part of the vocabulary.
// Sequences shorter than k yield an all-zero vector.
func (v *Vocabulary) Transform(seq string) FeatureVector {
	counts := make(map[int]int)
	forEachKmer(preprocess(seq, v.caseSensitive), v.k, func(term string) {
		if i, ok := v.index[term]; ok {
			counts[i]++
		}
	})
	return newFeatureVector(len(v.terms), counts)
}

// TransformAll transforms every entry of seqs.
func (v *Vocabulary) TransformAll(seqs []string) []FeatureVector {
	out := make([]FeatureVector, len(seqs))
	for i, s := range seqs {
		out[i] = v.Transform(s)
	}
	return out
}
