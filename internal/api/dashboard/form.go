package dashboard

import (
	"net/http"
	"strconv"
	"strings"

	"bodyfat/internal/domain/bodyfat"
	"bodyfat/pkg/errors"
)

// Field describes one measurement input of the dashboard form.
// Min and Max are slider bounds; they are advisory and not enforced.
type Field struct {
	Feature bodyfat.Feature
	Label   string
	Default float64
	Min     float64
	Max     float64
	Step    float64
	Slider  bool
}

// Fields lists the form inputs in canonical order
var Fields = []Field{
	{Feature: bodyfat.FeatureDensity, Label: "Body Density", Default: 1.07, Min: 0.9, Max: 1.1, Step: 0.001, Slider: true},
	{Feature: bodyfat.FeatureAge, Label: "Age", Default: 30, Min: 18, Max: 80, Step: 1, Slider: true},
	{Feature: bodyfat.FeatureWeight, Label: "Weight (kg)", Default: 75, Min: 40, Max: 150, Step: 1, Slider: true},
	{Feature: bodyfat.FeatureHeight, Label: "Height (cm)", Default: 175, Min: 140, Max: 200, Step: 1, Slider: true},
	{Feature: bodyfat.FeatureAbdomen, Label: "Abdomen", Default: 85, Step: 0.1},
	{Feature: bodyfat.FeatureNeck, Label: "Neck", Default: 37, Step: 0.1},
	{Feature: bodyfat.FeatureChest, Label: "Chest", Default: 95, Step: 0.1},
	{Feature: bodyfat.FeatureHip, Label: "Hip", Default: 94, Step: 0.1},
	{Feature: bodyfat.FeatureThigh, Label: "Thigh", Default: 55, Step: 0.1},
}

// DefaultEngine is the preselected prediction engine
const DefaultEngine = bodyfat.WithDensity

// Defaults returns the initial form values keyed by feature
func Defaults() map[bodyfat.Feature]float64 {
	out := make(map[bodyfat.Feature]float64, len(Fields))
	for _, f := range Fields {
		out[f.Feature] = f.Default
	}
	return out
}

// submission is one decoded request, from either the form or the JSON API
type submission struct {
	Name         string
	Measurements bodyfat.MeasurementSet
	Variant      bodyfat.Variant
	// Raw keeps the submitted strings so the form can be re-rendered as typed
	Raw map[bodyfat.Feature]string
}

// parseForm decodes an urlencoded form. Blank or non-numeric fields are left
// out of the measurement set so the engine reports them as input errors.
func parseForm(r *http.Request) (submission, error) {
	if err := r.ParseForm(); err != nil {
		return submission{}, errors.NewValidationError("form", "malformed form body", nil)
	}

	sub := submission{
		Name: strings.TrimSpace(r.PostForm.Get("name")),
		Raw:  make(map[bodyfat.Feature]string, len(Fields)),
	}

	values := make(map[bodyfat.Feature]float64, len(Fields))
	var errs errors.MultiError
	for _, f := range Fields {
		raw := strings.TrimSpace(r.PostForm.Get(formKey(f.Feature)))
		sub.Raw[f.Feature] = raw
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs.Add(errors.NewValidationError(f.Feature.String(), "measurement is not a number", raw))
			continue
		}
		values[f.Feature] = v
	}
	sub.Measurements = bodyfat.NewMeasurementSet(values)

	variant, err := parseEngine(r.PostForm.Get("engine"))
	if err != nil {
		errs.Add(err)
	}
	sub.Variant = variant

	return sub, errs.ToError()
}

// predictRequest is the JSON body of POST /api/predict.
// Pointers distinguish a missing field from a zero value.
type predictRequest struct {
	Name    string   `json:"name"`
	Density *float64 `json:"density"`
	Age     *float64 `json:"age"`
	Weight  *float64 `json:"weight"`
	Height  *float64 `json:"height"`
	Abdomen *float64 `json:"abdomen"`
	Neck    *float64 `json:"neck"`
	Chest   *float64 `json:"chest"`
	Hip     *float64 `json:"hip"`
	Thigh   *float64 `json:"thigh"`
	Engine  string   `json:"engine"`
}

func (p predictRequest) submission() (submission, error) {
	fields := map[bodyfat.Feature]*float64{
		bodyfat.FeatureDensity: p.Density,
		bodyfat.FeatureAge:     p.Age,
		bodyfat.FeatureWeight:  p.Weight,
		bodyfat.FeatureHeight:  p.Height,
		bodyfat.FeatureAbdomen: p.Abdomen,
		bodyfat.FeatureNeck:    p.Neck,
		bodyfat.FeatureChest:   p.Chest,
		bodyfat.FeatureHip:     p.Hip,
		bodyfat.FeatureThigh:   p.Thigh,
	}

	values := make(map[bodyfat.Feature]float64, len(fields))
	for f, v := range fields {
		if v != nil {
			values[f] = *v
		}
	}

	variant, err := parseEngine(p.Engine)
	return submission{
		Name:         strings.TrimSpace(p.Name),
		Measurements: bodyfat.NewMeasurementSet(values),
		Variant:      variant,
	}, err
}

// parseEngine accepts the radio labels and slugs; blank selects the default engine
func parseEngine(s string) (bodyfat.Variant, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultEngine, nil
	}
	return bodyfat.ParseVariant(s)
}

func formKey(f bodyfat.Feature) string {
	return strings.ToLower(f.String())
}
