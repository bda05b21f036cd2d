// Package prediction is the prediction-and-goal engine: it routes a request to
// the variant's estimator, classifies the estimate, computes the 15 % goal and
// records successful predictions in the session history.
package prediction

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"bodyfat/internal/domain/bodyfat"
	"bodyfat/internal/domain/importance"
	"bodyfat/internal/metrics"
	"bodyfat/internal/ml/registry"
	"bodyfat/internal/services/history"
	"bodyfat/pkg/errors"
	"bodyfat/pkg/logger"
)

// Router resolves a variant to its estimator, features and importance key
type Router interface {
	Route(v bodyfat.Variant) (registry.Route, error)
	Importance() *importance.Table
}

// EventPublisher is notified after each successful prediction
type EventPublisher interface {
	PublishPrediction(ctx context.Context, pred *bodyfat.Prediction) error
}

// Service is safe for concurrent use; the history store is its only mutable state
type Service struct {
	router    Router
	history   *history.Store
	publisher EventPublisher
	now       func() time.Time
	log       *logger.Logger
}

// Option configures the service
type Option func(*Service)

// WithPublisher publishes prediction.completed events
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithClock overrides the wall clock (tests)
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new prediction service
func NewService(router Router, store *history.Store, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		router:  router,
		history: store,
		now:     time.Now,
		log:     log.With("service", "prediction"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Predict estimates body fat for one set of measurements.
// On failure the returned error is a *Error and the history is left untouched.
func (s *Service) Predict(ctx context.Context, userLabel string, m bodyfat.MeasurementSet, v bodyfat.Variant) (*bodyfat.Prediction, error) {
	start := time.Now()

	pred, pErr := s.estimate(m, v)
	if pErr != nil {
		metrics.RecordPrediction(v.Slug(), pErr.Kind.String(), time.Since(start))
		s.reportFailure(ctx, v, pErr)
		return nil, pErr
	}

	entry := history.NewEntry(s.now(), userLabel, pred.BodyFatPercent)
	s.history.Append(entry)

	pred.ID = uuid.New()
	pred.User = entry.User
	pred.PredictedAt = entry.Time

	metrics.RecordPrediction(v.Slug(), "success", time.Since(start))
	metrics.RecordEstimate(v.Slug(), pred.Status.Label, pred.BodyFatPercent)

	s.log.Infow("Prediction completed",
		"id", pred.ID,
		"user", pred.User,
		"engine", v.Slug(),
		"body_fat", pred.BodyFatPercent,
		"status", pred.Status.Label,
	)

	if s.publisher != nil {
		if err := s.publisher.PublishPrediction(ctx, pred); err != nil {
			s.log.Warnw("Failed to publish prediction event", "id", pred.ID, "error", err)
		}
	}

	return pred, nil
}

// estimate runs routing, estimation, classification, goal arithmetic and the
// importance lookup. It has no side effects.
func (s *Service) estimate(m bodyfat.MeasurementSet, v bodyfat.Variant) (*bodyfat.Prediction, *Error) {
	route, err := s.router.Route(v)
	if err != nil {
		return nil, newError(KindConfiguration, err)
	}
	if route.Estimator == nil {
		return nil, newError(KindConfiguration, errors.Newf("no estimator loaded for %q", v))
	}

	vector, err := bodyfat.BuildFeatureVector(m, route.Features)
	if err != nil {
		return nil, newError(KindInput, err)
	}

	raw, err := invoke(route.Estimator, vector)
	if err != nil {
		return nil, newError(KindEstimation, err)
	}
	bf := bodyfat.Round(raw, 2)

	weight, ok := m.Weight()
	if !ok || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return nil, newError(KindInput, errors.NewValidationError(bodyfat.FeatureWeight.String(), "measurement is missing", nil))
	}

	table := s.router.Importance()
	if table == nil {
		return nil, newError(KindConfiguration, errors.New("feature importance table is not loaded"))
	}
	items, err := table.Ascending(route.ImportanceKey)
	if err != nil {
		return nil, newError(KindConfiguration, err)
	}

	return &bodyfat.Prediction{
		Variant:        v,
		BodyFatPercent: bf,
		Status:         bodyfat.Classify(bf),
		Goal:           bodyfat.ComputeGoal(weight, bf),
		Importance:     items,
	}, nil
}

// invoke calls the estimator, converting a panic or a non-finite value into an error
func invoke(est bodyfat.Estimator, vector bodyfat.FeatureVector) (value float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("estimator panicked: %v", r)
		}
	}()

	value, err = est.Predict(vector)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.Newf("estimator returned non-finite value %v", value)
	}
	return value, nil
}

func (s *Service) reportFailure(ctx context.Context, v bodyfat.Variant, pErr *Error) {
	if pErr.Kind == KindInput {
		s.log.Warnw("Prediction rejected", "engine", v.Slug(), "error", pErr.Err)
		return
	}
	s.log.ErrorWithContext(ctx, pErr, map[string]string{
		"kind":   pErr.Kind.String(),
		"engine": v.Slug(),
	})
}
