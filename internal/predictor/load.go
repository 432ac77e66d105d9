package predictor

import (
	"context"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"housingd/internal/artifact"
	"housingd/internal/registry"
)

// Load resolves the configured model path and deserializes the artifact.
// On failure a previously loaded model stays active; without one the
// predictor enters StateError.
func (p *Predictor) Load(ctx context.Context) error {
	return p.load(ctx, EventModelLoaded)
}

// Reload is Load for an already serving predictor; it publishes
// EventModelReloaded on success.
func (p *Predictor) Reload(ctx context.Context) error {
	return p.load(ctx, EventModelReloaded)
}

func (p *Predictor) load(ctx context.Context, event string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	path, err := registry.Resolve(p.modelPath)
	if err != nil {
		if registry.IsNoArtifacts(err) || errors.Is(err, os.ErrNotExist) {
			err = errors.WithSecondaryError(modelNotFoundError{path: p.modelPath}, err)
		}
		return p.fail(err)
	}
	a, err := artifact.Load(path)
	if err != nil {
		return p.fail(err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	a.Model.SetLogger(p.log)
	p.install(a, path)
	p.log.Info().
		Str("model_id", a.Meta.ID).
		Str("path", path).
		Int("trees", len(a.Model.Trees)).
		Dur("dur", time.Since(start)).
		Msg("model loaded")
	p.pub.Publish(Event{Name: event, ModelID: a.Meta.ID, Fields: map[string]any{"path": path}})
	return nil
}

func (p *Predictor) install(a *artifact.Artifact, path string) {
	p.mu.Lock()
	p.art = a
	p.path = path
	p.loadedAt = time.Now()
	p.state = StateReady
	p.err = ""
	p.mu.Unlock()
	p.loads.Add(1)
}

func (p *Predictor) fail(err error) error {
	p.mu.Lock()
	p.err = err.Error()
	if p.art == nil {
		p.state = StateError
	}
	p.mu.Unlock()
	p.log.Error().Err(err).Str("model_path", p.modelPath).Msg("model load failed")
	p.pub.Publish(Event{Name: EventModelLoadFailed, Fields: map[string]any{"error": err.Error()}})
	return err
}
