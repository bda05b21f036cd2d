package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bodyfat/pkg/errors"
	"bodyfat/pkg/logger"
)

func ok(context.Context) error { return nil }

func failing(context.Context) error { return errors.ErrUnavailable }

func decode(t *testing.T, rec *httptest.ResponseRecorder) HealthStatus {
	t.Helper()
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	return status
}

func TestHandleLiveness(t *testing.T) {
	h := New(logger.NewNop(), "bodyfat", "test")
	rec := httptest.NewRecorder()

	h.HandleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}

func TestHandleReadiness(t *testing.T) {
	tests := []struct {
		name   string
		checks []Check
		code   int
		status string
	}{
		{
			name:   "all healthy",
			checks: []Check{{Name: "models", Required: true, Probe: ok}},
			code:   http.StatusOK,
			status: StatusHealthy,
		},
		{
			name: "optional broker down",
			checks: []Check{
				{Name: "models", Required: true, Probe: ok},
				{Name: "kafka", Probe: failing},
			},
			code:   http.StatusOK,
			status: StatusDegraded,
		},
		{
			name: "models missing",
			checks: []Check{
				{Name: "models", Required: true, Probe: failing},
				{Name: "kafka", Probe: ok},
			},
			code:   http.StatusServiceUnavailable,
			status: StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(logger.NewNop(), "bodyfat", "test", tt.checks...)
			rec := httptest.NewRecorder()

			h.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.code, rec.Code)
			status := decode(t, rec)
			assert.Equal(t, tt.status, status.Status)
			assert.Len(t, status.Checks, len(tt.checks))
		})
	}
}

func TestHandleHealth_Details(t *testing.T) {
	h := New(logger.NewNop(), "bodyfat", "1.2.0",
		Check{Name: "models", Required: true, Probe: ok},
		Check{Name: "kafka", Probe: failing},
	)
	rec := httptest.NewRecorder()

	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	status := decode(t, rec)
	assert.Equal(t, "bodyfat", status.Service)
	assert.Equal(t, "1.2.0", status.Version)
	assert.Equal(t, "now", status.StartedAt)
	assert.Equal(t, "service unavailable", status.Checks["kafka"].Error)
	assert.True(t, status.Checks["models"].Required)
}
