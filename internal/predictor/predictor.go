package predictor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"housingd/internal/artifact"
	"housingd/pkg/types"
)

type Predictor struct {
	mu       sync.RWMutex
	state    State
	art      *artifact.Artifact
	path     string
	loadedAt time.Time
	err      string

	modelPath string
	maxBatch  int
	log       zerolog.Logger
	pub       EventPublisher
	validate  *validator.Validate

	loads       atomic.Uint64
	predictions atomic.Uint64
	startTime   time.Time
}

// New constructs a Predictor from Config. No model is loaded until Load.
func New(cfg Config) *Predictor {
	p := &Predictor{
		state:     StateLoading,
		modelPath: cfg.ModelPath,
		maxBatch:  cfg.MaxBatch,
		log:       cfg.Logger,
		pub:       cfg.Publisher,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		startTime: time.Now(),
	}
	if p.maxBatch <= 0 {
		p.maxBatch = defaultMaxBatch
	}
	if p.pub == nil {
		p.pub = noopPublisher{}
	}
	return p
}

// NewFromArtifact returns a ready Predictor serving an in-memory artifact.
func NewFromArtifact(a *artifact.Artifact, cfg Config) *Predictor {
	p := New(cfg)
	p.install(a, "")
	return p
}

// Ready reports whether a model is loaded and serving.
func (p *Predictor) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.art != nil
}

// ModelInfo returns the metadata of the active model.
func (p *Predictor) ModelInfo() (types.ModelInfo, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.art == nil {
		return types.ModelInfo{}, notReadyError{state: p.state}
	}
	info := p.art.Meta
	info.FeatureNames = append([]string(nil), info.FeatureNames...)
	info.Path = p.path
	return info, nil
}
