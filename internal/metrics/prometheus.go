package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Prediction metrics
	Predictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bodyfat_predictions_total",
			Help: "Total number of prediction requests",
		},
		[]string{"variant", "status"}, // status: success|configuration|input|estimation
	)

	PredictionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bodyfat_prediction_duration_seconds",
			Help:    "Prediction latency in seconds, estimator included",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"variant"},
	)

	BodyFatPercent = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bodyfat_estimate_percent",
			Help:    "Distribution of estimated body-fat percentages",
			Buckets: []float64{8, 14, 22, 28, 35, 45},
		},
		[]string{"variant"},
	)

	StatusBands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bodyfat_status_total",
			Help: "Predictions per health band",
		},
		[]string{"status"},
	)

	// HTTP metrics
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bodyfat_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bodyfat_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bodyfat_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	// Event metrics
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bodyfat_events_published_total",
			Help: "Prediction events published to Kafka",
		},
		[]string{"topic", "status"}, // status: success|error
	)
)

var initOnce sync.Once

// Init registers all metrics with Prometheus. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(Predictions)
		prometheus.MustRegister(PredictionDuration)
		prometheus.MustRegister(BodyFatPercent)
		prometheus.MustRegister(StatusBands)

		prometheus.MustRegister(HTTPRequests)
		prometheus.MustRegister(HTTPDuration)
		prometheus.MustRegister(RateLimited)

		prometheus.MustRegister(EventsPublished)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordPrediction records one prediction outcome. status is "success" or the error kind.
func RecordPrediction(variant, status string, latency time.Duration) {
	Predictions.WithLabelValues(variant, status).Inc()
	PredictionDuration.WithLabelValues(variant).Observe(latency.Seconds())
}

// RecordEstimate records a successful estimate and its band
func RecordEstimate(variant, statusLabel string, bodyFat float64) {
	BodyFatPercent.WithLabelValues(variant).Observe(bodyFat)
	StatusBands.WithLabelValues(statusLabel).Inc()
}

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(route string, code string, duration time.Duration) {
	HTTPRequests.WithLabelValues(route, code).Inc()
	HTTPDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordEventPublish records a Kafka publish
func RecordEventPublish(topic string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	EventsPublished.WithLabelValues(topic, status).Inc()
}
