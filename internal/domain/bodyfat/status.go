package bodyfat

// Status is the health band a body-fat percentage falls into
type Status struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var (
	StatusEssentialFat = Status{Label: "ESSENTIAL FAT", Color: "#38bdf8"}
	StatusAthlete      = Status{Label: "ATHLETE / FIT", Color: "#10b981"}
	StatusFitness      = Status{Label: "FITNESS / HEALTHY", Color: "#22c55e"}
	StatusAverage      = Status{Label: "AVERAGE", Color: "#f59e0b"}
	StatusObese        = Status{Label: "OBESE RANGE", Color: "#ef4444"}
)

// Classify maps a body-fat percentage to its health band.
// Bands are lower-inclusive: 8 is ATHLETE / FIT, 28 is OBESE RANGE.
// NaN compares false everywhere and lands in the last band.
func Classify(bodyFatPercent float64) Status {
	switch {
	case bodyFatPercent < 8:
		return StatusEssentialFat
	case bodyFatPercent < 14:
		return StatusAthlete
	case bodyFatPercent < 22:
		return StatusFitness
	case bodyFatPercent < 28:
		return StatusAverage
	default:
		return StatusObese
	}
}
