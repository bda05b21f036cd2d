package bodyfat

import (
	"math"
	"strings"

	"bodyfat/pkg/errors"
)

// Feature names a single anthropometric measurement
type Feature string

const (
	FeatureDensity Feature = "Density"
	FeatureAge     Feature = "Age"
	FeatureWeight  Feature = "Weight"
	FeatureHeight  Feature = "Height"
	FeatureAbdomen Feature = "Abdomen"
	FeatureNeck    Feature = "Neck"
	FeatureChest   Feature = "Chest"
	FeatureHip     Feature = "Hip"
	FeatureThigh   Feature = "Thigh"
)

// CanonicalOrder is the column order both estimators were trained with.
// Reordering it silently corrupts predictions.
var CanonicalOrder = []Feature{
	FeatureDensity,
	FeatureAge,
	FeatureWeight,
	FeatureHeight,
	FeatureAbdomen,
	FeatureNeck,
	FeatureChest,
	FeatureHip,
	FeatureThigh,
}

// String returns string representation
func (f Feature) String() string {
	return string(f)
}

// Valid checks if the feature is one of the canonical measurements
func (f Feature) Valid() bool {
	for _, c := range CanonicalOrder {
		if c == f {
			return true
		}
	}
	return false
}

// Variant selects a feature set together with its estimator
type Variant int

const (
	WithDensity Variant = iota
	WithoutDensity
)

// Variants lists every supported variant
var Variants = []Variant{WithDensity, WithoutDensity}

// Valid checks if variant is one of the supported engines
func (v Variant) Valid() bool {
	return v == WithDensity || v == WithoutDensity
}

// String returns the label shown in the engine selector
func (v Variant) String() string {
	switch v {
	case WithDensity:
		return "With Density"
	case WithoutDensity:
		return "Without Density"
	}
	return "Unknown"
}

// Slug returns a label-safe identifier (metrics, events)
func (v Variant) Slug() string {
	switch v {
	case WithDensity:
		return "with_density"
	case WithoutDensity:
		return "without_density"
	}
	return "unknown"
}

// ParseVariant resolves the engine selector string into a Variant.
// Accepts the selector labels and their slugs, case-insensitively.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "with density", "with_density":
		return WithDensity, nil
	case "without density", "without_density":
		return WithoutDensity, nil
	}
	return 0, errors.NewValidationError("engine", "unknown prediction engine", s)
}

// FeatureOrder returns the ordered features the variant's estimator consumes
func (v Variant) FeatureOrder() []Feature {
	order := make([]Feature, 0, len(CanonicalOrder))
	for _, f := range CanonicalOrder {
		if v == WithoutDensity && f == FeatureDensity {
			continue
		}
		order = append(order, f)
	}
	return order
}

// MeasurementSet holds the raw measurements of one request.
// It is immutable once constructed.
type MeasurementSet struct {
	values map[Feature]float64
}

// NewMeasurementSet copies the given values into a new set
func NewMeasurementSet(values map[Feature]float64) MeasurementSet {
	copied := make(map[Feature]float64, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return MeasurementSet{values: copied}
}

// Value returns the measurement for f and whether it was supplied
func (m MeasurementSet) Value(f Feature) (float64, bool) {
	v, ok := m.values[f]
	return v, ok
}

// Weight is the body weight in kg used by the goal arithmetic
func (m MeasurementSet) Weight() (float64, bool) {
	return m.Value(FeatureWeight)
}

// Len returns the number of supplied measurements
func (m MeasurementSet) Len() int {
	return len(m.values)
}

// FeatureValue is one named column of a feature vector
type FeatureValue struct {
	Name  Feature
	Value float64
}

// FeatureVector is the ordered estimator input
type FeatureVector []FeatureValue

// BuildFeatureVector selects measurements in the given order.
// A missing or non-numeric (NaN, ±Inf) measurement is an input error.
func BuildFeatureVector(m MeasurementSet, order []Feature) (FeatureVector, error) {
	vector := make(FeatureVector, 0, len(order))
	for _, f := range order {
		v, ok := m.Value(f)
		if !ok {
			return nil, errors.NewValidationError(f.String(), "measurement is missing", nil)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.NewValidationError(f.String(), "measurement is not a number", v)
		}
		vector = append(vector, FeatureValue{Name: f, Value: v})
	}
	return vector, nil
}

// Names returns the column names in order
func (fv FeatureVector) Names() []Feature {
	names := make([]Feature, len(fv))
	for i, v := range fv {
		names[i] = v.Name
	}
	return names
}

// Values returns the column values in order
func (fv FeatureVector) Values() []float64 {
	values := make([]float64, len(fv))
	for i, v := range fv {
		values[i] = v.Value
	}
	return values
}
