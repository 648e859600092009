// Package naivebayes implements a multinomial Naive Bayes classifier over
// sparse count vectors.
//
// For every class c the model estimates a prior P(c) from label frequencies and
// a smoothed per-feature probability
//
//	P(i|c) = (N_ci + alpha) / (N_c + alpha*d)
//
// where N_ci is the total count of feature i across the training rows of c,
// N_c the total count of all features in c and d the number of features.
// Scoring happens in log space: log P(c) + sum_i x_i * log P(i|c).
//
// # Usage
//
//	m, _ := naivebayes.Fit(ctx, X, y)
//	label, _ := m.Predict(x)
//	proba, _ := m.PredictProba(x) // aligned with m.Classes()
//
// A fitted Model is immutable and safe for concurrent use.
package naivebayes
