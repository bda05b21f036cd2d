package bodyfat

import (
	"math"

	"github.com/shopspring/decimal"
)

// TargetBodyFatFraction is the fixed goal of 15 % body fat
const TargetBodyFatFraction = 0.15

// Goal is the weight needed to reach the target body-fat percentage
type Goal struct {
	TargetWeight float64 `json:"target_weight"`
	WeightDiff   float64 `json:"weight_diff"`
}

// ComputeGoal assumes lean mass stays constant while weight changes:
//
//	lean   = weight * (1 - bf/100)
//	target = round(lean / (1 - 0.15), 1)
//	diff   = round(weight - target, 1)
func ComputeGoal(weight, bodyFatPercent float64) Goal {
	leanMass := weight * (1 - bodyFatPercent/100)
	target := Round(leanMass/(1-TargetBodyFatFraction), 1)
	return Goal{
		TargetWeight: target,
		WeightDiff:   Round(weight-target, 1),
	}
}

// exactExp is below the smallest float64 exponent, so conversion keeps every binary digit
const exactExp = -1100

// Round rounds the exact binary value of value to places decimals, ties to even.
// 2.675 is stored as 2.67499... and rounds to 2.67; 0.125 is a true tie and rounds to 0.12.
func Round(value float64, places int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	rounded, _ := decimal.NewFromFloatWithExponent(value, exactExp).RoundBank(places).Float64()
	return rounded
}
