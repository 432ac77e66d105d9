// Package metrics computes regression quality metrics.
package metrics

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"housingd/pkg/types"
)

// ErrNoVariance is returned by R2 when every true value is identical.
var ErrNoVariance = errors.New("metrics: total sum of squares is zero")

func check(op string, yTrue, yPred []float64) error {
	if len(yTrue) == 0 {
		return errors.Newf("metrics: %s: empty input", op)
	}
	if len(yTrue) != len(yPred) {
		return errors.Newf("metrics: %s: length mismatch, %d true vs %d predicted", op, len(yTrue), len(yPred))
	}
	return nil
}

// MSE is the mean squared error.
func MSE(yTrue, yPred []float64) (float64, error) {
	if err := check("MSE", yTrue, yPred); err != nil {
		return 0, err
	}
	d := make([]float64, len(yTrue))
	floats.SubTo(d, yTrue, yPred)
	return floats.Dot(d, d) / float64(len(d)), nil
}

// RMSE is the square root of MSE.
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE is the mean absolute error.
func MAE(yTrue, yPred []float64) (float64, error) {
	if err := check("MAE", yTrue, yPred); err != nil {
		return 0, err
	}
	d := make([]float64, len(yTrue))
	floats.SubTo(d, yTrue, yPred)
	return floats.Norm(d, 1) / float64(len(d)), nil
}

// R2 is the coefficient of determination, 1 - RSS/TSS.
func R2(yTrue, yPred []float64) (float64, error) {
	if err := check("R2", yTrue, yPred); err != nil {
		return 0, err
	}
	mean := stat.Mean(yTrue, nil)
	var tss, rss float64
	for i, y := range yTrue {
		tss += (y - mean) * (y - mean)
		rss += (y - yPred[i]) * (y - yPred[i])
	}
	if tss == 0 {
		return 0, ErrNoVariance
	}
	return 1 - rss/tss, nil
}

// Evaluate computes every metric at once.
func Evaluate(yTrue, yPred []float64) (types.Metrics, error) {
	var m types.Metrics
	var err error
	if m.MSE, err = MSE(yTrue, yPred); err != nil {
		return m, err
	}
	m.RMSE = math.Sqrt(m.MSE)
	if m.MAE, err = MAE(yTrue, yPred); err != nil {
		return m, err
	}
	if m.R2, err = R2(yTrue, yPred); err != nil {
		return m, err
	}
	return m, nil
}
