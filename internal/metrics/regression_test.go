package metrics

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegressionMetrics(t *testing.T) {
	yTrue := []float64{3, -0.5, 2, 7}
	yPred := []float64{2.5, 0.0, 2, 8}

	mse, err := MSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.375, mse, 1e-12)

	rmse, err := RMSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.375), rmse, 1e-12)

	mae, err := MAE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mae, 1e-12)

	r2, err := R2(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.9486081370449679, r2, 1e-12)

	rep, err := Evaluate(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, mse, rep.MSE, 1e-12)
	assert.InDelta(t, rmse, rep.RMSE, 1e-12)
	assert.InDelta(t, mae, rep.MAE, 1e-12)
	assert.InDelta(t, r2, rep.R2, 1e-12)
}

func TestMetricsInputErrors(t *testing.T) {
	_, err := MSE(nil, nil)
	assert.Error(t, err)
	_, err = MAE([]float64{1}, []float64{1, 2})
	assert.Error(t, err)
	_, err = R2([]float64{1, 1, 1}, []float64{1, 2, 3})
	assert.True(t, errors.Is(err, ErrNoVariance))
}
