package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"housingd/internal/predictor"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "housingd",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "housingd",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "housingd",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
		[]string{"method"},
	)

	backpressureTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "housingd",
			Subsystem: "http",
			Name:      "backpressure_total",
			Help:      "Total backpressure rejections (429)",
		},
		[]string{"reason"},
	)

	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "housingd",
			Subsystem: "model",
			Name:      "predictions_total",
			Help:      "Records scored, by endpoint",
		},
		[]string{"endpoint"},
	)

	modelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "housingd",
			Subsystem: "model",
			Name:      "loads_total",
			Help:      "Model load attempts, by result",
		},
		[]string{"result"},
	)

	modelInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "housingd",
			Subsystem: "model",
			Name:      "info",
			Help:      "Set to 1 for the active model id",
		},
		[]string{"model_id"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal, httpRequestDuration, httpInflight, backpressureTotal,
		predictionsTotal, modelLoadsTotal, modelInfo,
	)
}

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware instruments requests for Prometheus
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the route is unknown before routing, so in-flight counts by method
		inflight := httpInflight.WithLabelValues(methodLabel(r.Method))
		inflight.Inc()
		defer inflight.Dec()

		sr := &statusRecorder{ResponseWriter: w, status: 200}
		start := time.Now()
		next.ServeHTTP(sr, r)
		// the route pattern is only known once chi has routed the request
		path := routeLabel(r)
		statusLabel := itoa(sr.status)
		dur := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(path, methodLabel(r.Method), statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, methodLabel(r.Method), statusLabel).Observe(dur)
	})
}

// unmatchedRoute labels requests no route matched, so scanning arbitrary
// paths cannot grow label cardinality.
const unmatchedRoute = "unmatched"

// routeLabel returns the chi route pattern, or unmatchedRoute.
func routeLabel(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}

// methodLabel folds non-standard methods into one label value.
func methodLabel(m string) string {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return m
	}
	return "OTHER"
}

// IncrementBackpressure is called when returning 429 to the client
func IncrementBackpressure(reason string) {
	if reason == "" {
		reason = "unspecified"
	}
	backpressureTotal.WithLabelValues(reason).Inc()
}

// MetricsPublisher mirrors predictor lifecycle events into Prometheus.
type MetricsPublisher struct{}

func (MetricsPublisher) Publish(e predictor.Event) {
	switch e.Name {
	case predictor.EventModelLoaded, predictor.EventModelReloaded:
		modelLoadsTotal.WithLabelValues("ok").Inc()
		modelInfo.Reset()
		modelInfo.WithLabelValues(e.ModelID).Set(1)
	case predictor.EventModelLoadFailed:
		modelLoadsTotal.WithLabelValues("error").Inc()
	}
}

// fast integer to ascii for small set of status codes
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
