package predictor

import "github.com/rs/zerolog"

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxBatch = 1000
)

// Config encapsulates all tunables for Predictor construction.
type Config struct {
	// ModelPath is an artifact file or a directory holding artifacts; a
	// directory resolves to its newest artifact.
	ModelPath string
	// MaxBatch caps the number of records per PredictBatch call.
	MaxBatch  int
	Logger    zerolog.Logger
	Publisher EventPublisher
}
