package forest

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFitted is returned by Predict and friends before Fit succeeds.
	ErrNotFitted = errors.New("forest: model is not fitted")
	// ErrEmptyData is returned by Fit for zero rows or zero features.
	ErrEmptyData = errors.New("forest: empty data")
	// ErrNonFinite is returned when an input contains NaN or Inf.
	ErrNonFinite = errors.New("forest: input contains NaN or Inf")
)

// DimensionError reports an input whose shape does not match the model.
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for features
}

func (e *DimensionError) Error() string {
	axis := "features"
	if e.Axis == 0 {
		axis = "rows"
	}
	return fmt.Sprintf("forest: %s: dimension mismatch on %s, expected %d, got %d", e.Op, axis, e.Expected, e.Got)
}

// MarshalZerologObject adds the mismatch details to a log event.
func (e *DimensionError) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis)
}

func newDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ParamError reports an invalid hyperparameter.
type ParamError struct {
	Param string
	Value any
	Want  string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("forest: invalid %s=%v, want %s", e.Param, e.Value, e.Want)
}

func newParamError(param string, value any, want string) error {
	return errors.WithStack(&ParamError{Param: param, Value: value, Want: want})
}
