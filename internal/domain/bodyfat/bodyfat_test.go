package bodyfat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bodyfat/pkg/errors"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		value float64
		want  Status
	}{
		{value: -3, want: StatusEssentialFat},
		{value: 7.99, want: StatusEssentialFat},
		{value: 8, want: StatusAthlete},
		{value: 13.99, want: StatusAthlete},
		{value: 14, want: StatusFitness},
		{value: 21.99, want: StatusFitness},
		{value: 22, want: StatusAverage},
		{value: 27.99, want: StatusAverage},
		{value: 28, want: StatusObese},
		{value: 65, want: StatusObese},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.value), "classify(%v)", tt.value)
	}
}

func TestClassify_Colors(t *testing.T) {
	assert.Equal(t, "#38bdf8", Classify(5).Color)
	assert.Equal(t, "#10b981", Classify(10).Color)
	assert.Equal(t, "#22c55e", Classify(18).Color)
	assert.Equal(t, "#f59e0b", Classify(25).Color)
	assert.Equal(t, "#ef4444", Classify(30).Color)
	assert.Equal(t, StatusObese, Classify(math.NaN()))
}

func TestComputeGoal(t *testing.T) {
	goal := ComputeGoal(75, 20)
	assert.Equal(t, 70.6, goal.TargetWeight)
	assert.Equal(t, 4.4, goal.WeightDiff)

	// already below target: negative diff means weight to gain
	goal = ComputeGoal(60, 10)
	assert.Equal(t, 63.5, goal.TargetWeight)
	assert.Equal(t, -3.5, goal.WeightDiff)

	// at target the goal is the current weight
	goal = ComputeGoal(80, 15)
	assert.Equal(t, 80.0, goal.TargetWeight)
	assert.Equal(t, 0.0, goal.WeightDiff)

	// lean/0.85 lands just below 75.25 in binary
	goal = ComputeGoal(75.25, 15)
	assert.Equal(t, 75.2, goal.TargetWeight)
	assert.Equal(t, 0.0, goal.WeightDiff)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 18.35, Round(18.3456, 2))
	assert.Equal(t, 70.6, Round(70.588235, 1))

	tests := []struct {
		value  float64
		places int32
		want   float64
	}{
		{value: 0.125, places: 2, want: 0.12},
		{value: -0.125, places: 2, want: -0.12},
		{value: 0.375, places: 2, want: 0.38},
		{value: 2.675, places: 2, want: 2.67},
		{value: 1.005, places: 2, want: 1.0},
		{value: 0.25, places: 1, want: 0.2},
		{value: 20.0041, places: 2, want: 20.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.value, tt.places), "Round(%v, %d)", tt.value, tt.places)
	}

	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))
}

func TestVariant_FeatureOrder(t *testing.T) {
	with := WithDensity.FeatureOrder()
	without := WithoutDensity.FeatureOrder()

	require.Len(t, with, 9)
	require.Len(t, without, 8)
	assert.Equal(t, CanonicalOrder, with)
	assert.NotContains(t, without, FeatureDensity)
	assert.Equal(t, CanonicalOrder[1:], without)
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		input   string
		want    Variant
		wantErr bool
	}{
		{input: "With Density", want: WithDensity},
		{input: "Without Density", want: WithoutDensity},
		{input: " without density ", want: WithoutDensity},
		{input: "with_density", want: WithDensity},
		{input: "WITHOUT_DENSITY", want: WithoutDensity},
		{input: "Hybrid", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVariant(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Variant {
	t.Helper()
	v, err := ParseVariant(s)
	require.NoError(t, err)
	return v
}

func TestBuildFeatureVector(t *testing.T) {
	m := NewMeasurementSet(map[Feature]float64{
		FeatureDensity: 1.07, FeatureAge: 30, FeatureWeight: 75, FeatureHeight: 175,
		FeatureAbdomen: 85, FeatureNeck: 37, FeatureChest: 95, FeatureHip: 94, FeatureThigh: 55,
	})

	vector, err := BuildFeatureVector(m, WithoutDensity.FeatureOrder())
	require.NoError(t, err)
	assert.Equal(t, WithoutDensity.FeatureOrder(), vector.Names())
	assert.Equal(t, []float64{30, 75, 175, 85, 37, 95, 94, 55}, vector.Values())

	vector, err = BuildFeatureVector(m, WithDensity.FeatureOrder())
	require.NoError(t, err)
	assert.Equal(t, 1.07, vector.Values()[0])
}

func TestBuildFeatureVector_InputErrors(t *testing.T) {
	missing := NewMeasurementSet(map[Feature]float64{FeatureAge: 30})
	_, err := BuildFeatureVector(missing, []Feature{FeatureAge, FeatureWeight})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Weight")

	notNumber := NewMeasurementSet(map[Feature]float64{FeatureAge: math.NaN()})
	_, err = BuildFeatureVector(notNumber, []Feature{FeatureAge})
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestMeasurementSet_Immutable(t *testing.T) {
	src := map[Feature]float64{FeatureWeight: 75}
	m := NewMeasurementSet(src)
	src[FeatureWeight] = 90

	v, ok := m.Value(FeatureWeight)
	assert.True(t, ok)
	assert.Equal(t, 75.0, v)
	assert.Equal(t, 1, m.Len())
}
