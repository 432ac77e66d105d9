package predictor

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"housingd/internal/artifact"
	"housingd/internal/forest"
	"housingd/pkg/types"
)

// tinyArtifact fits a small forest whose target is MedInc plus an offset.
func tinyArtifact(t *testing.T, offset float64) *artifact.Artifact {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	X := mat.NewDense(80, types.NumFeatures, nil)
	y := make([]float64, 80)
	for i := 0; i < 80; i++ {
		for j := 0; j < types.NumFeatures; j++ {
			X.Set(i, j, rng.Float64()*10)
		}
		y[i] = X.At(i, 0) + offset
	}
	m := forest.NewRegressor(forest.WithNEstimators(5), forest.WithRandomState(1))
	require.NoError(t, m.Fit(context.Background(), X, y))
	return artifact.New(m)
}

func saveTiny(t *testing.T, dir, name string, offset float64) (*artifact.Artifact, string) {
	t.Helper()
	a := tinyArtifact(t, offset)
	p := filepath.Join(dir, name)
	require.NoError(t, artifact.Save(p, a))
	return a, p
}

func record() types.HousingFeatures {
	return types.NewHousingFeatures([]float64{8.3252, 41, 6.98, 1.02, 322, 2.55, 37.88, -122.23})
}

func newTest(path string, pub EventPublisher) *Predictor {
	return New(Config{ModelPath: path, MaxBatch: 3, Logger: zerolog.Nop(), Publisher: pub})
}
