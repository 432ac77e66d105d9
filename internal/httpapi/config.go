package httpapi

import (
	"time"

	"golang.org/x/time/rate"
)

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// predictTimeout bounds a single prediction request. Zero means no
// additional timeout beyond server/connection timeouts.
var predictTimeout time.Duration

// SetPredictTimeout sets the per-request prediction timeout (0 disables).
func SetPredictTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	predictTimeout = d
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}

// Rate limiting (opt-in) for the prediction endpoints. A non-positive rps
// disables it.
var (
	rateRPS   rate.Limit
	rateBurst int
)

// SetRateLimit configures a process-wide token bucket for prediction
// requests. Burst defaults to max(1, rps) when non-positive.
func SetRateLimit(rps float64, burst int) {
	if rps <= 0 {
		rateRPS, rateBurst = 0, 0
		return
	}
	if burst <= 0 {
		burst = max(1, int(rps))
	}
	rateRPS, rateBurst = rate.Limit(rps), burst
}
