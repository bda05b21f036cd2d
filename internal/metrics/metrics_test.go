package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSize int

func (f fixedSize) Len() int { return int(f) }

func TestHistoryCollector(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewHistoryCollector(fixedSize(12))))

	expected := `
# HELP bodyfat_history_entries Number of predictions held in the session history
# TYPE bodyfat_history_entries gauge
bodyfat_history_entries 12
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "bodyfat_history_entries"))
}

func TestRecordPrediction(t *testing.T) {
	before := testutil.ToFloat64(Predictions.WithLabelValues("with_density", "success"))
	RecordPrediction("with_density", "success", 2*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(Predictions.WithLabelValues("with_density", "success")))

	RecordEstimate("with_density", "AVERAGE", 24.1)
	assert.GreaterOrEqual(t, testutil.ToFloat64(StatusBands.WithLabelValues("AVERAGE")), 1.0)
}

func TestRecordEventPublish(t *testing.T) {
	RecordEventPublish("bodyfat.predictions", errors.New("broker down"))
	assert.GreaterOrEqual(t, testutil.ToFloat64(EventsPublished.WithLabelValues("bodyfat.predictions", "error")), 1.0)
}

func TestInit_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}
