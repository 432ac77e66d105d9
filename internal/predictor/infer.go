package predictor

import (
	"context"
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"housingd/internal/artifact"
	"housingd/pkg/types"
)

// Predict scores one record with the active model.
func (p *Predictor) Predict(ctx context.Context, rec types.HousingFeatures) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	a, err := p.active()
	if err != nil {
		return 0, err
	}
	if err := p.check(rec, ""); err != nil {
		return 0, err
	}
	v, err := a.Model.PredictOne(rec.Vector())
	if err != nil {
		return 0, errors.Wrap(err, "predict")
	}
	p.predictions.Add(1)
	return v, nil
}

// PredictBatch scores several records. Every record is validated before any
// is scored; the result keeps request order.
func (p *Predictor) PredictBatch(ctx context.Context, recs []types.HousingFeatures) ([]float64, error) {
	if len(recs) == 0 {
		return nil, ErrInvalidInput("instances must not be empty", "instances")
	}
	if len(recs) > p.maxBatch {
		return nil, ErrInvalidInput(fmt.Sprintf("batch of %d exceeds limit of %d", len(recs), p.maxBatch), "instances")
	}
	a, err := p.active()
	if err != nil {
		return nil, err
	}
	var bad []string
	for i, r := range recs {
		bad = append(bad, InvalidFields(p.check(r, fmt.Sprintf("instances[%d].", i)))...)
	}
	if len(bad) > 0 {
		return nil, ErrInvalidInput("invalid instances", bad...)
	}
	out := make([]float64, len(recs))
	for i, r := range recs {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if out[i], err = a.Model.PredictOne(r.Vector()); err != nil {
			return nil, errors.Wrapf(err, "predict instance %d", i)
		}
	}
	p.predictions.Add(uint64(len(recs)))
	return out, nil
}

func (p *Predictor) active() (*artifact.Artifact, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.art == nil {
		return nil, notReadyError{state: p.state}
	}
	return p.art, nil
}

// check enforces that all eight fields are present and finite.
func (p *Predictor) check(rec types.HousingFeatures, prefix string) error {
	var fields []string
	if err := p.validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return ErrInvalidInput(err.Error())
		}
		for _, fe := range verrs {
			fields = append(fields, prefix+fe.Field())
		}
		msg := "missing required fields"
		if len(rec.NonNumeric()) > 0 {
			msg = "fields must be present and numeric"
		}
		return ErrInvalidInput(msg, fields...)
	}
	for i, v := range rec.Vector() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			fields = append(fields, prefix+types.FeatureNames[i])
		}
	}
	if len(fields) > 0 {
		return ErrInvalidInput("fields must be finite numbers", fields...)
	}
	return nil
}
