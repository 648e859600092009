package naivebayes

import (
	"context"
	"fmt"
	"iter"
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
)

// Vector is a sparse count vector.
type Vector interface {
	// Dim returns the number of features.
	Dim() int
	// NonZero yields (index, value) pairs for every non-zero entry.
	NonZero() iter.Seq2[int, float64]
}

// Model is a fitted multinomial Naive Bayes classifier.
type Model struct {
	dim        int
	alpha      float64
	fitPrior   bool
	classPrior map[string]float64

	classes    []string
	classIndex map[string]int
	classCount []float64
	// featureCount[c][i] is the summed count of feature i over class c.
	featureCount [][]float64

	classLogPrior  []float64
	featureLogProb [][]float64
}

// Fit trains a model on the samples X with labels y.
//
// The class set is the sorted set of distinct labels. Per-class feature
// counts are accumulated concurrently, one task per class.
func Fit(ctx context.Context, X []Vector, y []string, optFns ...Option) (*Model, error) {
	o := applyOptions(optFns)
	if !(o.alpha > 0) {
		return nil, ErrInvalidAlpha
	}
	if len(X) == 0 {
		return nil, ErrInsufficientData
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("%w: %d samples, %d labels", ErrLengthMismatch, len(X), len(y))
	}

	dim := X[0].Dim()
	members := make(map[string]*roaring.Bitmap)
	for row, x := range X {
		if x.Dim() != dim {
			return nil, &DimensionMismatchError{Expected: dim, Actual: x.Dim()}
		}
		label := y[row]
		if label == "" {
			return nil, fmt.Errorf("%w: row %d", ErrEmptyLabel, row)
		}
		bm, ok := members[label]
		if !ok {
			bm = roaring.New()
			members[label] = bm
		}
		bm.Add(uint32(row))
	}

	classes := make([]string, 0, len(members))
	for label := range members {
		classes = append(classes, label)
	}
	sort.Strings(classes)

	m := &Model{
		dim:          dim,
		alpha:        o.alpha,
		fitPrior:     o.fitPrior,
		classPrior:   copyPrior(o.classPrior),
		classes:      classes,
		classIndex:   make(map[string]int, len(classes)),
		classCount:   make([]float64, len(classes)),
		featureCount: make([][]float64, len(classes)),
	}
	for c, label := range classes {
		m.classIndex[label] = c
		m.classCount[c] = float64(members[label].GetCardinality())
	}

	g, gctx := errgroup.WithContext(ctx)
	for c, label := range classes {
		rows := members[label]
		g.Go(func() error {
			counts, err := accumulate(gctx, X, rows, dim)
			if err != nil {
				return fmt.Errorf("class %q: %w", label, err)
			}
			m.featureCount[c] = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := m.computeLogProbs(); err != nil {
		return nil, err
	}
	return m, nil
}

func accumulate(ctx context.Context, X []Vector, rows *roaring.Bitmap, dim int) ([]float64, error) {
	counts := make([]float64, dim)
	it := rows.Iterator()
	for it.HasNext() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := it.Next()
		for i, v := range X[row].NonZero() {
			if i < 0 || i >= dim {
				return nil, fmt.Errorf("%w: %d (dim %d)", ErrFeatureIndex, i, dim)
			}
			if v < 0 {
				return nil, fmt.Errorf("%w: row %d feature %d", ErrNegativeFeature, row, i)
			}
			counts[i] += v
		}
	}
	return counts, nil
}

func (m *Model) computeLogProbs() error {
	nClasses := len(m.classes)

	m.classLogPrior = make([]float64, nClasses)
	switch {
	case m.classPrior != nil:
		var sum float64
		for _, label := range m.classes {
			p, ok := m.classPrior[label]
			if !ok || !(p > 0) {
				return fmt.Errorf("%w: class %q", ErrInvalidPrior, label)
			}
			sum += p
		}
		for c, label := range m.classes {
			m.classLogPrior[c] = math.Log(m.classPrior[label] / sum)
		}
	case m.fitPrior:
		var total float64
		for _, n := range m.classCount {
			total += n
		}
		for c, n := range m.classCount {
			m.classLogPrior[c] = math.Log(n) - math.Log(total)
		}
	default:
		uniform := -math.Log(float64(nClasses))
		for c := range m.classLogPrior {
			m.classLogPrior[c] = uniform
		}
	}

	m.featureLogProb = make([][]float64, nClasses)
	for c, counts := range m.featureCount {
		var total float64
		for _, n := range counts {
			total += n
		}
		denom := math.Log(total + m.alpha*float64(m.dim))
		flp := make([]float64, m.dim)
		for i, n := range counts {
			flp[i] = math.Log(n+m.alpha) - denom
		}
		m.featureLogProb[c] = flp
	}
	return nil
}

// Classes returns the class labels in model order.
func (m *Model) Classes() []string {
	out := make([]string, len(m.classes))
	copy(out, m.classes)
	return out
}

// Dim returns the number of features.
func (m *Model) Dim() int { return m.dim }

// Alpha returns the smoothing parameter.
func (m *Model) Alpha() float64 { return m.alpha }

// ClassCount returns the number of training samples of label.
func (m *Model) ClassCount(label string) int {
	c, ok := m.classIndex[label]
	if !ok {
		return 0
	}
	return int(m.classCount[c])
}

// ClassLogPrior returns log P(c) for every class, in model order.
func (m *Model) ClassLogPrior() []float64 {
	out := make([]float64, len(m.classLogPrior))
	copy(out, m.classLogPrior)
	return out
}

// FeatureLogProb returns log P(i|label) for every feature.
func (m *Model) FeatureLogProb(label string) ([]float64, bool) {
	c, ok := m.classIndex[label]
	if !ok {
		return nil, false
	}
	out := make([]float64, m.dim)
	copy(out, m.featureLogProb[c])
	return out, true
}

// JointLogLikelihood returns log P(c) + log P(x|c) for every class.
func (m *Model) JointLogLikelihood(x Vector) ([]float64, error) {
	if x.Dim() != m.dim {
		return nil, &DimensionMismatchError{Expected: m.dim, Actual: x.Dim()}
	}

	jll := make([]float64, len(m.classes))
	copy(jll, m.classLogPrior)
	for i, v := range x.NonZero() {
		if i < 0 || i >= m.dim {
			return nil, fmt.Errorf("%w: %d (dim %d)", ErrFeatureIndex, i, m.dim)
		}
		for c := range jll {
			jll[c] += v * m.featureLogProb[c][i]
		}
	}
	return jll, nil
}

// Predict returns the most probable class for x. Ties resolve to the class
// that sorts first.
func (m *Model) Predict(x Vector) (string, error) {
	jll, err := m.JointLogLikelihood(x)
	if err != nil {
		return "", err
	}
	return m.classes[argmax(jll)], nil
}

// PredictLogProba returns the log posterior of every class, in model order.
func (m *Model) PredictLogProba(x Vector) ([]float64, error) {
	jll, err := m.JointLogLikelihood(x)
	if err != nil {
		return nil, err
	}
	norm := logSumExp(jll)
	for c := range jll {
		jll[c] -= norm
	}
	return jll, nil
}

// PredictProba returns the posterior of every class, in model order.
// The values are non-negative and sum to one.
func (m *Model) PredictProba(x Vector) ([]float64, error) {
	lp, err := m.PredictLogProba(x)
	if err != nil {
		return nil, err
	}
	for c := range lp {
		lp[c] = math.Exp(lp[c])
	}
	return lp, nil
}

func argmax(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}

func logSumExp(xs []float64) float64 {
	maxVal := math.Inf(-1)
	for _, x := range xs {
		if x > maxVal {
			maxVal = x
		}
	}
	if math.IsInf(maxVal, 0) {
		return maxVal
	}
	var sum float64
	for _, x := range xs {
		sum += math.Exp(x - maxVal)
	}
	return maxVal + math.Log(sum)
}

func copyPrior(p map[string]float64) map[string]float64 {
	if p == nil {
		return nil
	}
	out := make(map[string]float64, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
