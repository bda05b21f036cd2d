// Package registry holds the two pre-trained estimators and routes a variant
// to its estimator, feature order and importance key.
package registry

import (
	"sync/atomic"

	"bodyfat/internal/domain/bodyfat"
	"bodyfat/internal/domain/importance"
	"bodyfat/internal/ml"
	"bodyfat/pkg/errors"
)

// Route is everything the prediction engine needs for one variant
type Route struct {
	Variant       bodyfat.Variant
	Estimator     bodyfat.Estimator
	Features      []bodyfat.Feature
	ImportanceKey string
}

// Registry is built once at startup and read-only afterwards
type Registry struct {
	routes     map[bodyfat.Variant]Route
	importance *importance.Table
	closed     atomic.Bool
}

// ImportanceKey returns the importance-table label of a variant
func ImportanceKey(v bodyfat.Variant) string {
	if v == bodyfat.WithDensity {
		return importance.KeyWithDensity
	}
	return importance.KeyWithoutDensity
}

// New validates the assets and builds the registry. Every problem is reported
// at once as a configuration error so a misconfigured process fails fast.
func New(estimators map[bodyfat.Variant]bodyfat.Estimator, table *importance.Table) (*Registry, error) {
	var errs errors.MultiError

	if table == nil {
		errs.Add(errors.Wrap(errors.ErrConfiguration, "feature importance table is not loaded"))
	}

	routes := make(map[bodyfat.Variant]Route, len(bodyfat.Variants))
	for _, v := range bodyfat.Variants {
		route := Route{
			Variant:       v,
			Estimator:     estimators[v],
			Features:      v.FeatureOrder(),
			ImportanceKey: ImportanceKey(v),
		}

		if route.Estimator == nil {
			errs.Add(errors.Wrapf(errors.ErrConfiguration, "no estimator loaded for %q", v))
		} else if err := checkWidth(route); err != nil {
			errs.Add(err)
		}
		if table != nil && !table.Has(route.ImportanceKey) {
			errs.Add(errors.Wrapf(errors.ErrConfiguration, "feature importance key %q not found", route.ImportanceKey))
		}

		routes[v] = route
	}

	if err := errs.ToError(); err != nil {
		return nil, err
	}

	return &Registry{routes: routes, importance: table}, nil
}

func checkWidth(route Route) error {
	if counter, ok := route.Estimator.(bodyfat.FeatureCounter); ok {
		if n := counter.FeatureCount(); n >= 0 && n != len(route.Features) {
			return errors.Wrapf(errors.ErrConfiguration,
				"estimator for %q expects %d features, route provides %d", route.Variant, n, len(route.Features))
		}
	}
	if linear, ok := route.Estimator.(*ml.LinearModel); ok {
		allowed := make(map[bodyfat.Feature]bool, len(route.Features))
		for _, f := range route.Features {
			allowed[f] = true
		}
		for _, f := range linear.Uses() {
			if !allowed[f] {
				return errors.Wrapf(errors.ErrConfiguration,
					"estimator for %q reads %s which the route does not provide", route.Variant, f)
			}
		}
	}
	return nil
}

// Route resolves a variant. An unknown variant is a configuration error.
func (r *Registry) Route(v bodyfat.Variant) (Route, error) {
	route, ok := r.routes[v]
	if !ok {
		return Route{}, errors.Wrapf(errors.ErrConfiguration, "no route for engine variant %d", int(v))
	}
	return route, nil
}

// Importance returns the shared importance table
func (r *Registry) Importance() *importance.Table {
	return r.importance
}

// Ready reports whether every route can serve predictions
func (r *Registry) Ready() error {
	if r.closed.Load() {
		return errors.Wrap(errors.ErrModelNotLoaded, "registry is closed")
	}
	for _, v := range bodyfat.Variants {
		route, ok := r.routes[v]
		if !ok || route.Estimator == nil {
			return errors.Wrapf(errors.ErrModelNotLoaded, "no estimator for %q", v)
		}
		if r.importance == nil || !r.importance.Has(route.ImportanceKey) {
			return errors.Wrapf(errors.ErrConfiguration, "feature importance key %q not found", route.ImportanceKey)
		}
	}
	return nil
}

// Close releases estimators holding native resources
func (r *Registry) Close() {
	if r.closed.Swap(true) {
		return
	}
	for _, route := range r.routes {
		if c, ok := route.Estimator.(bodyfat.Closer); ok {
			c.Close()
		}
	}
}
