package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"housingd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Predict(ctx context.Context, rec types.HousingFeatures) (float64, error)
	PredictBatch(ctx context.Context, recs []types.HousingFeatures) ([]float64, error)
	ModelInfo() (types.ModelInfo, error)
	Status() types.StatusResponse
	Ready() bool
}

type handlers struct {
	svc Service
}

func NewMux(svc Service) http.Handler {
	h := &handlers{svc: svc}
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}

	r.Group(func(r chi.Router) {
		if rateRPS > 0 {
			r.Use(rateLimit(rate.NewLimiter(rateRPS, rateBurst)))
		}
		r.Post("/predict", h.predict)
		r.Post("/predict/batch", h.predictBatch)
	})
	r.Get("/model", h.model)
	r.Get("/status", h.status)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// predict godoc
// @Summary      Predict a median house value
// @Description  Scores one census block group. All eight fields are required.
// @Tags         predict
// @Accept       json
// @Produce      json
// @Param        body  body      types.HousingFeatures  true  "Block group features"
// @Success      200   {object}  types.PredictResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      415   {object}  types.ErrorResponse
// @Failure      422   {object}  types.ErrorResponse
// @Failure      429   {object}  types.ErrorResponse
// @Failure      503   {object}  types.ErrorResponse
// @Router       /predict [post]
func (h *handlers) predict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lvl := requestLogLevel(r)
	var req types.HousingFeatures
	if status, err := decodeJSON(w, r, &req); err != nil {
		logEnd(r, lvl, status, start, err)
		return
	}
	logStart(r, lvl, 1)
	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := requestContext(r)
	defer cancel()
	v, err := h.svc.Predict(ctx, req)
	if err != nil {
		// If context was canceled (client disconnect), just return.
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		logEnd(r, lvl, writeServiceError(w, err), start, err)
		return
	}
	predictionsTotal.WithLabelValues("predict").Inc()
	writeJSON(w, http.StatusOK, types.PredictResponse{PredictedPrice: v})
	logDebug(r, lvl, req, []float64{v})
	logEnd(r, lvl, http.StatusOK, start, nil)
}

// predictBatch godoc
// @Summary      Predict several median house values
// @Description  Scores up to the configured batch limit of records; predictions keep request order.
// @Tags         predict
// @Accept       json
// @Produce      json
// @Param        body  body      types.BatchPredictRequest  true  "Records to score"
// @Success      200   {object}  types.BatchPredictResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      415   {object}  types.ErrorResponse
// @Failure      422   {object}  types.ErrorResponse
// @Failure      429   {object}  types.ErrorResponse
// @Failure      503   {object}  types.ErrorResponse
// @Router       /predict/batch [post]
func (h *handlers) predictBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lvl := requestLogLevel(r)
	var req types.BatchPredictRequest
	if status, err := decodeJSON(w, r, &req); err != nil {
		logEnd(r, lvl, status, start, err)
		return
	}
	logStart(r, lvl, len(req.Instances))
	ctx, cancel := requestContext(r)
	defer cancel()
	out, err := h.svc.PredictBatch(ctx, req.Instances)
	if err != nil {
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return
		}
		logEnd(r, lvl, writeServiceError(w, err), start, err)
		return
	}
	predictionsTotal.WithLabelValues("batch").Add(float64(len(out)))
	writeJSON(w, http.StatusOK, types.BatchPredictResponse{Predictions: out})
	logDebug(r, lvl, req.Instances, out)
	logEnd(r, lvl, http.StatusOK, start, nil)
}

// model godoc
// @Summary      Active model metadata
// @Tags         model
// @Produce      json
// @Success      200  {object}  types.ModelInfo
// @Failure      503  {object}  types.ErrorResponse
// @Router       /model [get]
func (h *handlers) model(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.ModelInfo()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// status godoc
// @Summary      Server status
// @Tags         status
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// decodeJSON checks the content type and decodes a size-limited body into
// dst. On failure it writes the error response and returns its status.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) (int, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		const msg = "Content-Type must be application/json"
		writeJSONError(w, http.StatusUnsupportedMediaType, msg)
		return http.StatusUnsupportedMediaType, errors.New(msg)
	}
	// Limit body size (configurable, default 1MiB)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err == nil {
		// exactly one JSON value per body
		if extra := dec.Decode(&json.RawMessage{}); extra != io.EOF {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return http.StatusBadRequest, errors.New("trailing data after JSON body")
		}
		return 0, nil
	}
	var (
		tooBig  *http.MaxBytesError
		typeErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &tooBig):
		writeJSONError(w, http.StatusBadRequest, "request body too large")
		return http.StatusBadRequest, err
	case errors.As(err, &typeErr) && typeErr.Field != "":
		writeJSONError(w, http.StatusUnprocessableEntity, "fields must be numbers", typeErr.Field)
		return http.StatusUnprocessableEntity, err
	}
	writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
	return http.StatusBadRequest, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zlog.Warn().Err(err).Msg("failed to encode response")
	}
}

// rateLimit rejects requests beyond the token bucket with 429.
func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				IncrementBackpressure("rate_limit")
				w.Header().Set("Retry-After", "1")
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
