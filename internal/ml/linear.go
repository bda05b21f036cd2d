package ml

import (
	"encoding/json"
	"os"

	"bodyfat/internal/domain/bodyfat"
	"bodyfat/pkg/errors"
)

// LinearModel is a JSON regression artifact:
//
//	prediction = intercept + Σ coefficients[f]*x[f] + Σ inverse[f]/x[f]
//
// The inverse terms express density-based equations such as Siri's
// (495/Density - 450) without a native runtime.
type LinearModel struct {
	Intercept    float64                     `json:"intercept"`
	Coefficients map[bodyfat.Feature]float64 `json:"coefficients"`
	Inverse      map[bodyfat.Feature]float64 `json:"inverse"`
	Features     []bodyfat.Feature           `json:"features,omitempty"`
}

// LoadLinearModel reads a linear artifact from disk
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read linear model %s", path)
	}

	var m LinearModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "decode linear model %s", path)
	}
	if err := m.validate(); err != nil {
		return nil, errors.Wrapf(err, "linear model %s", path)
	}
	return &m, nil
}

func (m *LinearModel) validate() error {
	var errs errors.MultiError
	for f := range m.Coefficients {
		if !f.Valid() {
			errs.Add(errors.Newf("unknown feature %q in coefficients", f))
		}
	}
	for f := range m.Inverse {
		if !f.Valid() {
			errs.Add(errors.Newf("unknown feature %q in inverse terms", f))
		}
	}
	for _, f := range m.Features {
		if !f.Valid() {
			errs.Add(errors.Newf("unknown feature %q in feature list", f))
		}
	}
	return errs.ToError()
}

// FeatureCount returns the declared input width, or -1 when features are not listed
func (m *LinearModel) FeatureCount() int {
	if len(m.Features) == 0 {
		return -1
	}
	return len(m.Features)
}

// Uses reports every feature the model reads
func (m *LinearModel) Uses() []bodyfat.Feature {
	used := make([]bodyfat.Feature, 0, len(m.Coefficients)+len(m.Inverse))
	for _, f := range bodyfat.CanonicalOrder {
		_, c := m.Coefficients[f]
		_, i := m.Inverse[f]
		if c || i {
			used = append(used, f)
		}
	}
	return used
}

// Predict evaluates the model. Terms are summed in canonical feature order so
// the result is bit-identical across calls. A listed feature order that differs
// from the vector, a feature absent from the vector or a zero under an inverse
// term is an error.
func (m *LinearModel) Predict(vector bodyfat.FeatureVector) (float64, error) {
	if len(m.Features) > 0 {
		if len(m.Features) != len(vector) {
			return 0, errors.Newf("expected %d features, got %d", len(m.Features), len(vector))
		}
		for i, f := range m.Features {
			if vector[i].Name != f {
				return 0, errors.Newf("feature %d is %s, model was trained with %s", i, vector[i].Name, f)
			}
		}
	}

	values := make(map[bodyfat.Feature]float64, len(vector))
	for _, v := range vector {
		values[v.Name] = v.Value
	}

	result := m.Intercept
	for _, f := range bodyfat.CanonicalOrder {
		if c, ok := m.Coefficients[f]; ok {
			x, present := values[f]
			if !present {
				return 0, errors.Newf("feature %s not in input vector", f)
			}
			result += c * x
		}
		if k, ok := m.Inverse[f]; ok {
			x, present := values[f]
			if !present {
				return 0, errors.Newf("feature %s not in input vector", f)
			}
			if x == 0 {
				return 0, errors.Newf("feature %s is zero under an inverse term", f)
			}
			result += k / x
		}
	}
	return result, nil
}
