package bodyfat

import (
	"time"

	"github.com/google/uuid"

	"bodyfat/internal/domain/importance"
)

// Prediction is the structured result of one successful estimate
type Prediction struct {
	ID             uuid.UUID         `json:"id"`
	User           string            `json:"user"`
	Variant        Variant           `json:"-"`
	BodyFatPercent float64           `json:"body_fat_percent"`
	Status         Status            `json:"status"`
	Goal           Goal              `json:"goal"`
	Importance     []importance.Item `json:"importance"`
	PredictedAt    time.Time         `json:"predicted_at"`
}
