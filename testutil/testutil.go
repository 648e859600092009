package testutil

import (
	"bytes"
	"encoding/csv"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/hupe1980/dnaclass/dataset"
)

// Bases is the nucleotide alphabet used for generated sequences.
const Bases = "ACGT"

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Sequence returns a random sequence of length n over Bases.
func (r *RNG) Sequence(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sequenceLocked(n)
}

func (r *RNG) sequenceLocked(n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(Bases[r.rand.Intn(len(Bases))])
	}
	return b.String()
}

// Mutate replaces each base of seq with a random one with probability rate.
func (r *RNG) Mutate(seq string, rate float64) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []byte(seq)
	for i := range out {
		if r.rand.Float64() < rate {
			out[i] = Bases[r.rand.Intn(len(Bases))]
		}
	}
	return string(out)
}

// Region describes one synthetic class: background sequence with its motif
// inserted a few times.
type Region struct {
	Label   string
	Motif   string
	Repeats int
}

// DefaultRegions are three easily separable classes.
var DefaultRegions = []Region{
	{Label: "promoter", Motif: "TATAAT", Repeats: 3},
	{Label: "coding", Motif: "ATGGCC", Repeats: 3},
	{Label: "non-coding", Motif: "CACACA", Repeats: 3},
}

// RegionSequence returns a random background of length n with the region's
// motif inserted at random positions.
func (r *RNG) RegionSequence(region Region, n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.regionLocked(region, n)
}

func (r *RNG) regionLocked(region Region, n int) string {
	out := []byte(r.sequenceLocked(n))
	m := len(region.Motif)
	if m == 0 || m > n {
		return string(out)
	}
	for range region.Repeats {
		pos := r.rand.Intn(n - m + 1)
		copy(out[pos:], region.Motif)
	}
	return string(out)
}

// Corpus returns num records cycling through regions, each sequence of
// length n.
func (r *RNG) Corpus(regions []Region, num, n int) []dataset.Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]dataset.Record, num)
	for i := range num {
		region := regions[i%len(regions)]
		records[i] = dataset.Record{
			Sequence: r.regionLocked(region, n),
			Label:    region.Label,
		}
	}
	return records
}

// SkewedCorpus is like Corpus but draws the region of each record from a
// Zipf distribution, so the first regions dominate.
func (r *RNG) SkewedCorpus(regions []Region, num, n int, s float64) []dataset.Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]dataset.Record, num)
	for i := range num {
		region := regions[r.zipfLocked(len(regions), s)]
		records[i] = dataset.Record{
			Sequence: r.regionLocked(region, n),
			Label:    region.Label,
		}
	}
	return records
}

// Zipf returns a Zipf-distributed value in [0, n).
// s is the skew parameter (s > 1 for heavy skew, s = 1 for classic Zipf).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1
		}
	}

	return n - 1
}

// Present returns n flags, each false with probability missingRate. Use it
// to blank out fields when generating datasets with missing values.
func (r *RNG) Present(n int, missingRate float64) []bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	present := make([]bool, n)
	for i := range n {
		present[i] = r.rand.Float64() >= missingRate
	}
	return present
}

// CSV encodes records as a dataset file with the default header.
func CSV(records []dataset.Record) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{dataset.DefaultSequenceColumn, dataset.DefaultLabelColumn})
	for _, rec := range records {
		_ = w.Write([]string{rec.Sequence, rec.Label})
	}
	w.Flush()
	return buf.Bytes()
}

// Accuracy returns the fraction of records whose label equals predict's
// answer for the sequence.
func Accuracy(records []dataset.Record, predict func(seq string) (string, error)) (float64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	var correct int
	for _, rec := range records {
		label, err := predict(rec.Sequence)
		if err != nil {
			return 0, err
		}
		if label == rec.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(records)), nil
}
