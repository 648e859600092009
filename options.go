package dnaclass

import (
	"log/slog"

	"github.com/hupe1980/dnaclass/codec"
	"github.com/hupe1980/dnaclass/dataset"
	"github.com/hupe1980/dnaclass/kmer"
	"github.com/hupe1980/dnaclass/naivebayes"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	kmerOptions      []kmer.Option
	modelOptions     []naivebayes.Option
	datasetOptions   []dataset.Option
}

// Option configures Train, Load and Open.
type Option func(*options)

// WithK sets the k-mer length. The default is 3.
func WithK(k int) Option {
	return func(o *options) {
		o.kmerOptions = append(o.kmerOptions, kmer.WithK(k))
	}
}

// WithCaseSensitive keeps letter case when extracting k-mers. By default
// sequences are lower-cased first.
func WithCaseSensitive() Option {
	return func(o *options) {
		o.kmerOptions = append(o.kmerOptions, kmer.WithCaseSensitive())
	}
}

// WithMinDocFreq drops k-mers seen in fewer than n training sequences.
func WithMinDocFreq(n int) Option {
	return func(o *options) {
		o.kmerOptions = append(o.kmerOptions, kmer.WithMinDocFreq(n))
	}
}

// WithAlpha sets the additive smoothing parameter. The default is 1.0.
func WithAlpha(alpha float64) Option {
	return func(o *options) {
		o.modelOptions = append(o.modelOptions, naivebayes.WithAlpha(alpha))
	}
}

// WithFitPrior controls whether class priors are learned from label
// frequencies (the default) or taken as uniform.
func WithFitPrior(fit bool) Option {
	return func(o *options) {
		o.modelOptions = append(o.modelOptions, naivebayes.WithFitPrior(fit))
	}
}

// WithClassPrior fixes the class priors. Every class must be present.
func WithClassPrior(prior map[string]float64) Option {
	return func(o *options) {
		o.modelOptions = append(o.modelOptions, naivebayes.WithClassPrior(prior))
	}
}

// WithColumns sets the dataset column names used by Load.
func WithColumns(sequence, label string) Option {
	return func(o *options) {
		o.datasetOptions = append(o.datasetOptions, dataset.WithColumns(sequence, label))
	}
}

// WithDatasetOptions passes further options to the dataset loader used by Load.
func WithDatasetOptions(opts ...dataset.Option) Option {
	return func(o *options) {
		o.datasetOptions = append(o.datasetOptions, opts...)
	}
}

// WithCodec configures the codec used to write snapshots.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &dnaclass.BasicMetricsCollector{}
//	clf, _ := dnaclass.Load(ctx, store, "dna.csv", dnaclass.WithMetricsCollector(metrics))
//	// ... use clf ...
//	stats := metrics.GetStats()
//	fmt.Printf("Predictions: %d, Avg latency: %dns\n", stats.PredictCount, stats.PredictAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
