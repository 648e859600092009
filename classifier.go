package dnaclass

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/hupe1980/dnaclass/blobstore"
	"github.com/hupe1980/dnaclass/codec"
	"github.com/hupe1980/dnaclass/dataset"
	"github.com/hupe1980/dnaclass/kmer"
	"github.com/hupe1980/dnaclass/naivebayes"
)

// Classifier is a fitted k-mer vocabulary and Naive Bayes model.
//
// It is immutable and safe for concurrent use.
type Classifier struct {
	vocab   *kmer.Vocabulary
	model   *naivebayes.Model
	stats   Stats
	codec   codec.Codec
	logger  *Logger
	metrics MetricsCollector
}

// Stats describes how a Classifier was trained.
type Stats struct {
	// Source names the dataset, empty for in-memory training.
	Source string `json:"source,omitempty"`
	// Records is the number of records the model was fitted on.
	Records int `json:"records"`
	// Dropped counts records discarded for missing or malformed values.
	Dropped int `json:"dropped"`
	// ClassCounts is the number of training records per class.
	ClassCounts map[string]int `json:"class_counts"`
	// Features is the vocabulary size.
	Features      int           `json:"features"`
	K             int           `json:"k"`
	Alpha         float64       `json:"alpha"`
	TrainedAt     time.Time     `json:"trained_at"`
	TrainDuration time.Duration `json:"train_duration"`
}

// ClassProbability is the posterior probability of one class.
type ClassProbability struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Prediction is the result of classifying one sequence.
type Prediction struct {
	// Label is the most probable class.
	Label string `json:"label"`
	// Probabilities holds every class in sorted label order. They sum to 1.
	Probabilities []ClassProbability `json:"probabilities"`
}

// Probability returns the probability assigned to label.
func (p *Prediction) Probability(label string) (float64, bool) {
	for _, cp := range p.Probabilities {
		if cp.Label == label {
			return cp.Probability, true
		}
	}
	return 0, false
}

// Map returns the probabilities keyed by label.
func (p *Prediction) Map() map[string]float64 {
	out := make(map[string]float64, len(p.Probabilities))
	for _, cp := range p.Probabilities {
		out[cp.Label] = cp.Probability
	}
	return out
}

// Load reads the dataset name from store and trains a Classifier on it.
//
// Loader failures are returned as *DataLoadError.
func Load(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*Classifier, error) {
	o := applyOptions(optFns)

	start := time.Now()
	ds, err := dataset.NewLoader(store, o.datasetOptions...).Load(ctx, name)
	if err != nil {
		o.logger.LogLoad(ctx, name, 0, 0, err)
		o.metricsCollector.RecordLoad(0, 0, time.Since(start), err)
		return nil, &DataLoadError{Source: name, cause: err}
	}
	o.logger.LogLoad(ctx, name, ds.Len(), ds.Dropped, nil)
	o.metricsCollector.RecordLoad(ds.Len(), ds.Dropped, time.Since(start), nil)

	return train(ctx, ds, &o)
}

// Train fits a Classifier on records. Records with an empty sequence or
// label are skipped and counted as dropped.
func Train(ctx context.Context, records []dataset.Record, optFns ...Option) (*Classifier, error) {
	o := applyOptions(optFns)
	return train(ctx, &dataset.Dataset{Records: records}, &o)
}

func train(ctx context.Context, ds *dataset.Dataset, o *options) (clf *Classifier, err error) {
	start := time.Now()

	seqs := make([]string, 0, len(ds.Records))
	labels := make([]string, 0, len(ds.Records))
	dropped := ds.Dropped
	for _, r := range ds.Records {
		if r.Sequence == "" || r.Label == "" {
			dropped++
			continue
		}
		seqs = append(seqs, r.Sequence)
		labels = append(labels, r.Label)
	}

	defer func() {
		classes, features := 0, 0
		if clf != nil {
			classes, features = len(clf.model.Classes()), clf.vocab.Len()
		}
		o.logger.LogTrain(ctx, len(seqs), classes, features, time.Since(start), err)
		o.metricsCollector.RecordTrain(classes, features, time.Since(start), err)
	}()

	if len(seqs) == 0 {
		return nil, &InsufficientDataError{Records: 0}
	}

	vocab, vectors, err := kmer.FitTransform(seqs, o.kmerOptions...)
	if err != nil {
		if errors.Is(err, kmer.ErrEmptyVocabulary) {
			return nil, &InsufficientDataError{Records: len(seqs), cause: err}
		}
		return nil, fmt.Errorf("fit vocabulary: %w", err)
	}

	X := make([]naivebayes.Vector, len(vectors))
	for i, v := range vectors {
		X[i] = v
	}
	model, err := naivebayes.Fit(ctx, X, labels, o.modelOptions...)
	if err != nil {
		if errors.Is(err, naivebayes.ErrInsufficientData) {
			return nil, &InsufficientDataError{Records: len(seqs), cause: err}
		}
		return nil, fmt.Errorf("fit model: %w", err)
	}

	counts := make(map[string]int, len(model.Classes()))
	for _, label := range model.Classes() {
		counts[label] = model.ClassCount(label)
	}

	return &Classifier{
		vocab: vocab,
		model: model,
		stats: Stats{
			Source:        ds.Source,
			Records:       len(seqs),
			Dropped:       dropped,
			ClassCounts:   counts,
			Features:      vocab.Len(),
			K:             vocab.K(),
			Alpha:         model.Alpha(),
			TrainedAt:     time.Now().UTC(),
			TrainDuration: time.Since(start),
		},
		codec:   o.codec,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}, nil
}

// Predict classifies seq. Any string is accepted; k-mers that were not seen
// during training are ignored, so a sequence without known k-mers is scored
// by the class priors alone.
func (c *Classifier) Predict(ctx context.Context, seq string) (p *Prediction, err error) {
	start := time.Now()
	defer func() {
		label := ""
		if p != nil {
			label = p.Label
		}
		c.logger.LogPredict(ctx, len(seq), label, err)
		c.metrics.RecordPredict(label, time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	probs, err := c.model.PredictProba(c.vocab.Transform(seq))
	if err != nil {
		return nil, err
	}

	classes := c.model.Classes()
	p = &Prediction{Probabilities: make([]ClassProbability, len(classes))}
	best := 0
	for i, label := range classes {
		p.Probabilities[i] = ClassProbability{Label: label, Probability: probs[i]}
		if probs[i] > probs[best] {
			best = i
		}
	}
	p.Label = classes[best]
	return p, nil
}

// Transform returns the k-mer count vector of seq.
func (c *Classifier) Transform(seq string) kmer.FeatureVector {
	return c.vocab.Transform(seq)
}

// Classes returns the sorted class labels.
func (c *Classifier) Classes() []string { return c.model.Classes() }

// Vocabulary returns the fitted k-mer vocabulary.
func (c *Classifier) Vocabulary() *kmer.Vocabulary { return c.vocab }

// Model returns the fitted Naive Bayes model.
func (c *Classifier) Model() *naivebayes.Model { return c.model }

// Stats returns the training statistics.
func (c *Classifier) Stats() Stats {
	s := c.stats
	s.ClassCounts = maps.Clone(c.stats.ClassCounts)
	return s
}
