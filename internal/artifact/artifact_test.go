package artifact

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"housingd/internal/forest"
	"housingd/pkg/types"
)

func fitted(t *testing.T, nFeatures int) *forest.Regressor {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	X := mat.NewDense(60, nFeatures, nil)
	y := make([]float64, 60)
	for i := 0; i < 60; i++ {
		for j := 0; j < nFeatures; j++ {
			X.Set(i, j, rng.Float64())
		}
		y[i] = 3 * X.At(i, 0)
	}
	m := forest.NewRegressor(forest.WithNEstimators(4), forest.WithRandomState(1), forest.WithOOBScore(true))
	require.NoError(t, m.Fit(context.Background(), X, y))
	return m
}

func TestNewFillsMetadata(t *testing.T) {
	a := New(fitted(t, types.NumFeatures))
	assert.NotEmpty(t, a.Meta.ID)
	assert.Equal(t, forest.Algorithm, a.Meta.Algorithm)
	assert.Equal(t, types.FeatureNames, a.Meta.FeatureNames)
	assert.Equal(t, 60, a.Meta.TrainSamples)
	assert.Equal(t, 4, a.Meta.Params["n_estimators"])
	assert.Len(t, a.Meta.FeatureImportances, types.NumFeatures)
	assert.Greater(t, a.Meta.FeatureImportances["MedInc"], 0.5)
	assert.NotNil(t, a.Meta.OOBScore)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a := New(fitted(t, types.NumFeatures))
	a.Meta.Holdout = &types.Metrics{R2: 0.8, RMSE: 0.5}
	p := filepath.Join(t.TempDir(), "nested", "model"+Ext)
	require.NoError(t, Save(p, a))

	back, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, a.Meta.ID, back.Meta.ID)
	assert.Equal(t, a.Meta.Holdout, back.Meta.Holdout)
	assert.Equal(t, a.Meta.Params, back.Meta.Params)

	x := []float64{0.5, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7}
	want, err := a.Model.PredictOne(x)
	require.NoError(t, err)
	got, err := back.Model.PredictOne(x)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(p))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestReadRejectsForeignSchema(t *testing.T) {
	a := New(fitted(t, 3))
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, a))
	_, err := Read(&buf)
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing"+Ext))
	assert.Error(t, err)

	p := filepath.Join(dir, "junk"+Ext)
	require.NoError(t, os.WriteFile(p, []byte("not a gob"), 0o644))
	_, err = Load(p)
	assert.Error(t, err)

	assert.Error(t, Write(&bytes.Buffer{}, nil))
}
