package naivebayes

type options struct {
	alpha      float64
	fitPrior   bool
	classPrior map[string]float64
}

// Option configures Fit.
type Option func(*options)

// WithAlpha sets the additive (Laplace) smoothing parameter. Default 1.0.
func WithAlpha(alpha float64) Option {
	return func(o *options) {
		o.alpha = alpha
	}
}

// WithFitPrior controls whether class priors are learned from label
// frequencies (default) or taken as uniform.
func WithFitPrior(fit bool) Option {
	return func(o *options) {
		o.fitPrior = fit
	}
}

// WithClassPrior sets explicit class priors. Every class seen during Fit must
// have a positive entry; values are normalized to sum to one.
func WithClassPrior(prior map[string]float64) Option {
	return func(o *options) {
		o.classPrior = prior
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		alpha:    1.0,
		fitPrior: true,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
