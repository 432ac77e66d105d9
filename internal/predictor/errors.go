package predictor

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// notReadyError signals that no model is loaded yet (return 503).
type notReadyError struct{ state State }

func (e notReadyError) Error() string { return "model not ready: " + string(e.state) }
func (notReadyError) StatusCode() int { return http.StatusServiceUnavailable }

// IsNotReady reports whether err indicates the model is not loaded.
func IsNotReady(err error) bool {
	var e notReadyError
	return errors.As(err, &e)
}

// invalidInputError carries the offending field names of a rejected record.
type invalidInputError struct {
	msg    string
	fields []string
}

func (e invalidInputError) Error() string {
	if len(e.fields) == 0 {
		return e.msg
	}
	return e.msg + ": " + strings.Join(e.fields, ", ")
}

func (invalidInputError) StatusCode() int { return http.StatusUnprocessableEntity }

// ErrInvalidInput constructs an input validation error.
func ErrInvalidInput(msg string, fields ...string) error {
	return invalidInputError{msg: msg, fields: fields}
}

// IsInvalidInput reports whether err indicates a rejected request record.
func IsInvalidInput(err error) bool {
	var e invalidInputError
	return errors.As(err, &e)
}

// InvalidFields returns the offending fields of an invalid-input error.
func InvalidFields(err error) []string {
	var e invalidInputError
	if errors.As(err, &e) {
		return append([]string(nil), e.fields...)
	}
	return nil
}

// modelNotFoundError signals that the configured location holds no usable
// artifact.
type modelNotFoundError struct{ path string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.path }
func (modelNotFoundError) StatusCode() int { return http.StatusServiceUnavailable }

// IsModelNotFound reports whether the error indicates a missing artifact.
func IsModelNotFound(err error) bool {
	var e modelNotFoundError
	return errors.As(err, &e)
}
