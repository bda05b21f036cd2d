package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"bodyfat/internal/metrics"
	"bodyfat/pkg/errors"
	"bodyfat/pkg/logger"
)

// RateLimit rejects requests beyond a global token bucket with 429.
// Probes and /metrics are mounted outside this middleware.
func RateLimit(rps float64, burst int, next http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			metrics.RateLimited.Inc()
			writeError(w, errors.Wrap(errors.ErrRateLimitExceeded, "too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

// Instrument records request count and latency per route pattern and logs failures
func Instrument(log *logger.Logger, next http.Handler) http.Handler {
	log = log.With("component", "http")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		metrics.RecordHTTPRequest(route, strconv.Itoa(rec.code), elapsed)

		if rec.code >= http.StatusInternalServerError {
			log.Warnw("Request failed", "method", r.Method, "path", r.URL.Path, "code", rec.code, "elapsed", elapsed)
		} else {
			log.Debugw("Request served", "method", r.Method, "path", r.URL.Path, "code", rec.code, "elapsed", elapsed)
		}
	})
}
