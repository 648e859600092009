package naivebayes

import "fmt"

// Snapshot is the serializable state of a fitted Model. Log probabilities are
// derived data and recomputed by FromSnapshot.
type Snapshot struct {
	Dim          int                `json:"dim"`
	Alpha        float64            `json:"alpha"`
	FitPrior     bool               `json:"fit_prior"`
	ClassPrior   map[string]float64 `json:"class_prior,omitempty"`
	Classes      []string           `json:"classes"`
	ClassCount   []float64          `json:"class_count"`
	FeatureCount [][]float64        `json:"feature_count"`
}

// Snapshot returns a deep copy of the model's fitted counts.
func (m *Model) Snapshot() Snapshot {
	s := Snapshot{
		Dim:          m.dim,
		Alpha:        m.alpha,
		FitPrior:     m.fitPrior,
		ClassPrior:   copyPrior(m.classPrior),
		Classes:      m.Classes(),
		ClassCount:   append([]float64(nil), m.classCount...),
		FeatureCount: make([][]float64, len(m.featureCount)),
	}
	for c, counts := range m.featureCount {
		s.FeatureCount[c] = append([]float64(nil), counts...)
	}
	return s
}

// FromSnapshot rebuilds a Model from a Snapshot.
func FromSnapshot(s Snapshot) (*Model, error) {
	if !(s.Alpha > 0) {
		return nil, ErrInvalidAlpha
	}
	if len(s.Classes) == 0 {
		return nil, fmt.Errorf("%w: no classes", ErrInvalidSnapshot)
	}
	if len(s.ClassCount) != len(s.Classes) || len(s.FeatureCount) != len(s.Classes) {
		return nil, fmt.Errorf("%w: %d classes, %d class counts, %d feature rows",
			ErrInvalidSnapshot, len(s.Classes), len(s.ClassCount), len(s.FeatureCount))
	}

	m := &Model{
		dim:          s.Dim,
		alpha:        s.Alpha,
		fitPrior:     s.FitPrior,
		classPrior:   copyPrior(s.ClassPrior),
		classes:      append([]string(nil), s.Classes...),
		classIndex:   make(map[string]int, len(s.Classes)),
		classCount:   append([]float64(nil), s.ClassCount...),
		featureCount: make([][]float64, len(s.FeatureCount)),
	}
	for c, label := range m.classes {
		if label == "" {
			return nil, ErrEmptyLabel
		}
		if _, dup := m.classIndex[label]; dup {
			return nil, fmt.Errorf("%w: duplicate class %q", ErrInvalidSnapshot, label)
		}
		if c > 0 && m.classes[c-1] > label {
			return nil, fmt.Errorf("%w: classes not sorted", ErrInvalidSnapshot)
		}
		if !(m.classCount[c] > 0) {
			return nil, fmt.Errorf("%w: class %q has no samples", ErrInvalidSnapshot, label)
		}
		m.classIndex[label] = c
	}
	for c, counts := range s.FeatureCount {
		if len(counts) != s.Dim {
			return nil, &DimensionMismatchError{Expected: s.Dim, Actual: len(counts)}
		}
		for _, n := range counts {
			if n < 0 {
				return nil, ErrNegativeFeature
			}
		}
		m.featureCount[c] = append([]float64(nil), counts...)
	}

	if err := m.computeLogProbs(); err != nil {
		return nil, err
	}
	return m, nil
}
