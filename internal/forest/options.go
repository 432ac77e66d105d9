package forest

import "github.com/rs/zerolog"

// Option configures a Regressor.
type Option func(*Regressor)

// WithNEstimators sets the number of trees.
func WithNEstimators(n int) Option {
	return func(r *Regressor) { r.NEstimators = n }
}

// WithMaxDepth limits tree depth. Zero grows trees until leaves are pure or
// too small to split.
func WithMaxDepth(d int) Option {
	return func(r *Regressor) { r.MaxDepth = d }
}

// WithMinSamplesSplit sets the minimum number of samples required to split a node.
func WithMinSamplesSplit(n int) Option {
	return func(r *Regressor) { r.MinSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum number of samples in each leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(r *Regressor) { r.MinSamplesLeaf = n }
}

// WithMaxFeatures sets the fraction of features considered per split, in (0, 1].
func WithMaxFeatures(f float64) Option {
	return func(r *Regressor) { r.MaxFeatures = f }
}

// WithBootstrap toggles bootstrap resampling of the training rows per tree.
func WithBootstrap(b bool) Option {
	return func(r *Regressor) { r.Bootstrap = b }
}

// WithRandomState seeds tree construction.
func WithRandomState(seed int64) Option {
	return func(r *Regressor) { r.RandomState = seed }
}

// WithNJobs bounds the number of trees fitted concurrently. Zero or
// negative uses every CPU.
func WithNJobs(n int) Option {
	return func(r *Regressor) { r.nJobs = n }
}

// WithOOBScore enables out-of-bag scoring during Fit. Requires bootstrap.
func WithOOBScore(b bool) Option {
	return func(r *Regressor) { r.ComputeOOB = b }
}

// WithLogger sets the logger used for training progress.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Regressor) { r.logger = l }
}
