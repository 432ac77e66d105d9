// Package forest implements a random-forest regressor: an ensemble of CART
// regression trees, each grown on a bootstrap sample of the training rows,
// whose prediction is the mean of the tree outputs.
//
// Defaults follow scikit-learn's RandomForestRegressor: 100 trees, unlimited
// depth, min_samples_split=2, min_samples_leaf=1, every feature considered
// at each split and bootstrap resampling on.
//
// Exported fields exist for gob encoding of fitted models; configure a
// Regressor through options.
package forest

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"housingd/internal/metrics"
)

// Algorithm names this estimator in artifact metadata.
const Algorithm = "random_forest_regressor"

const (
	defaultNEstimators     = 100
	defaultMinSamplesSplit = 2
	defaultMinSamplesLeaf  = 1
	defaultMaxFeatures     = 1.0
)

// Regressor is a random-forest regression model.
type Regressor struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     float64
	Bootstrap       bool
	RandomState     int64
	ComputeOOB      bool

	Trees       []*Tree
	NFeatures   int
	NSamples    int
	Importances []float64
	OOB         float64
	HasOOB      bool
	Fitted      bool

	nJobs  int
	logger zerolog.Logger
}

// NewRegressor returns an unfitted regressor.
func NewRegressor(opts ...Option) *Regressor {
	r := &Regressor{
		NEstimators:     defaultNEstimators,
		MinSamplesSplit: defaultMinSamplesSplit,
		MinSamplesLeaf:  defaultMinSamplesLeaf,
		MaxFeatures:     defaultMaxFeatures,
		Bootstrap:       true,
		logger:          zerolog.Nop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// SetLogger replaces the training logger. Useful after decoding a model.
func (r *Regressor) SetLogger(l zerolog.Logger) { r.logger = l }

func (r *Regressor) validate() error {
	switch {
	case r.NEstimators < 1:
		return newParamError("n_estimators", r.NEstimators, ">= 1")
	case r.MaxDepth < 0:
		return newParamError("max_depth", r.MaxDepth, ">= 0")
	case r.MinSamplesSplit < 2:
		return newParamError("min_samples_split", r.MinSamplesSplit, ">= 2")
	case r.MinSamplesLeaf < 1:
		return newParamError("min_samples_leaf", r.MinSamplesLeaf, ">= 1")
	case !(r.MaxFeatures > 0 && r.MaxFeatures <= 1):
		return newParamError("max_features", r.MaxFeatures, "in (0, 1]")
	case r.ComputeOOB && !r.Bootstrap:
		return newParamError("oob_score", true, "bootstrap=true")
	}
	return nil
}

// Params returns the hyperparameters for reporting.
func (r *Regressor) Params() map[string]any {
	return map[string]any{
		"n_estimators":      r.NEstimators,
		"max_depth":         r.MaxDepth,
		"min_samples_split": r.MinSamplesSplit,
		"min_samples_leaf":  r.MinSamplesLeaf,
		"max_features":      r.MaxFeatures,
		"bootstrap":         r.Bootstrap,
		"random_state":      r.RandomState,
		"oob_score":         r.ComputeOOB,
	}
}

// Fit grows the ensemble on X (rows are samples) and targets y. Trees are
// fitted concurrently; results depend only on RandomState, not on the
// degree of parallelism. Canceling ctx aborts the fit.
func (r *Regressor) Fit(ctx context.Context, X mat.Matrix, y []float64) error {
	if err := r.validate(); err != nil {
		return err
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.WithStack(ErrEmptyData)
	}
	if len(y) != rows {
		return newDimensionError("Fit", rows, len(y), 0)
	}
	flat := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			flat = append(flat, X.At(i, j))
		}
	}
	if hasNonFinite(flat) || hasNonFinite(y) {
		return errors.WithStack(ErrNonFinite)
	}

	start := time.Now()
	params := treeParams{
		maxDepth:        r.MaxDepth,
		minSamplesSplit: r.MinSamplesSplit,
		minSamplesLeaf:  r.MinSamplesLeaf,
		maxFeatures:     max(1, int(r.MaxFeatures*float64(cols))),
	}
	seeds := make([]int64, r.NEstimators)
	master := rand.New(rand.NewSource(r.RandomState))
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	trees := make([]*Tree, r.NEstimators)
	imps := make([][]float64, r.NEstimators)
	inBag := make([][]bool, r.NEstimators)

	jobs := r.nJobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for t := 0; t < r.NEstimators; t++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seeds[t]))
			idx := make([]int, rows)
			if r.Bootstrap {
				bag := make([]bool, rows)
				for i := range idx {
					idx[i] = rng.Intn(rows)
					bag[idx[i]] = true
				}
				inBag[t] = bag
			} else {
				for i := range idx {
					idx[i] = i
				}
			}
			b := newBuilder(flat, y, cols, params, rng)
			trees[t] = b.grow(idx)
			imps[t] = b.importances
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "forest: fit")
	}

	r.Trees = trees
	r.NFeatures = cols
	r.NSamples = rows
	r.Importances = averageImportances(imps, cols)
	r.Fitted = true
	r.HasOOB = false
	if r.ComputeOOB {
		r.scoreOOB(flat, y, inBag)
	}

	ev := r.logger.Info().
		Str("algorithm", Algorithm).
		Int("trees", len(trees)).
		Int("samples", rows).
		Int("features", cols).
		Dur("elapsed", time.Since(start))
	if r.HasOOB {
		ev = ev.Float64("oob_r2", r.OOB)
	}
	ev.Msg("forest fitted")
	return nil
}

// averageImportances normalizes each tree's impurity decreases, averages
// them and renormalizes the result to sum to one.
func averageImportances(per [][]float64, nFeatures int) []float64 {
	out := make([]float64, nFeatures)
	for _, imp := range per {
		s := floats.Sum(imp)
		if s <= 0 {
			continue
		}
		floats.AddScaled(out, 1/s, imp)
	}
	if s := floats.Sum(out); s > 0 {
		floats.Scale(1/s, out)
	}
	return out
}

func (r *Regressor) scoreOOB(flat, y []float64, inBag [][]bool) {
	rows, cols := len(y), r.NFeatures
	sum := make([]float64, rows)
	cnt := make([]int, rows)
	for t, tree := range r.Trees {
		for i := 0; i < rows; i++ {
			if inBag[t][i] {
				continue
			}
			sum[i] += tree.Predict(flat[i*cols : (i+1)*cols])
			cnt[i]++
		}
	}
	var yt, yp []float64
	for i := range sum {
		if cnt[i] == 0 {
			continue
		}
		yt = append(yt, y[i])
		yp = append(yp, sum[i]/float64(cnt[i]))
	}
	if missing := rows - len(yt); missing > 0 {
		r.logger.Warn().Int("samples", missing).Msg("some samples were never left out of bag; oob estimate may be unreliable")
	}
	score, err := metrics.R2(yt, yp)
	if err != nil {
		r.logger.Warn().Err(err).Msg("oob score unavailable")
		return
	}
	r.OOB, r.HasOOB = score, true
}

// Predict returns one prediction per row of X.
func (r *Regressor) Predict(X mat.Matrix) ([]float64, error) {
	if !r.Fitted {
		return nil, errors.WithStack(ErrNotFitted)
	}
	rows, cols := X.Dims()
	if cols != r.NFeatures {
		return nil, newDimensionError("Predict", r.NFeatures, cols, 1)
	}
	out := make([]float64, rows)
	x := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(x, i, X)
		if hasNonFinite(x) {
			return nil, errors.Wrapf(ErrNonFinite, "row %d", i)
		}
		out[i] = r.predict(x)
	}
	return out, nil
}

// PredictOne scores a single feature vector.
func (r *Regressor) PredictOne(x []float64) (float64, error) {
	if !r.Fitted {
		return 0, errors.WithStack(ErrNotFitted)
	}
	if len(x) != r.NFeatures {
		return 0, newDimensionError("PredictOne", r.NFeatures, len(x), 1)
	}
	if hasNonFinite(x) {
		return 0, errors.WithStack(ErrNonFinite)
	}
	return r.predict(x), nil
}

func (r *Regressor) predict(x []float64) float64 {
	var s float64
	for _, t := range r.Trees {
		s += t.Predict(x)
	}
	return s / float64(len(r.Trees))
}

// Score returns the R^2 of the predictions on X against y.
func (r *Regressor) Score(X mat.Matrix, y []float64) (float64, error) {
	pred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2(y, pred)
}

// FeatureImportances returns a copy of the normalized impurity-based
// importances, one per feature.
func (r *Regressor) FeatureImportances() ([]float64, error) {
	if !r.Fitted {
		return nil, errors.WithStack(ErrNotFitted)
	}
	return append([]float64(nil), r.Importances...), nil
}

// OOBScore returns the out-of-bag R^2 when it was computed during Fit.
func (r *Regressor) OOBScore() (float64, bool) { return r.OOB, r.HasOOB }

func hasNonFinite(v []float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return true
		}
	}
	return false
}
