package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesSentinel(t *testing.T) {
	err := Wrapf(ErrConfiguration, "importance key %q", "missing")

	assert.True(t, Is(err, ErrConfiguration))
	assert.Equal(t, `importance key "missing": configuration error`, err.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestValidationError_MatchesInvalidInput(t *testing.T) {
	err := Wrap(NewValidationError("Weight", "is required", nil), "build feature vector")

	assert.True(t, Is(err, ErrInvalidInput))

	var vErr *ValidationError
	assert.True(t, As(err, &vErr))
	assert.Equal(t, "Weight", vErr.Field)
}

func TestMultiError(t *testing.T) {
	var m MultiError
	assert.Nil(t, m.ToError())

	m.Add(nil)
	m.Add(Wrap(ErrConfiguration, "no estimator for variant"))
	assert.Equal(t, "no estimator for variant: configuration error", m.ToError().Error())

	m.Add(ErrNotFound)
	err := m.ToError()
	assert.Equal(t, "multiple errors (2): no estimator for variant: configuration error; resource not found", err.Error())
	assert.True(t, Is(err, ErrConfiguration))
	assert.True(t, Is(err, ErrNotFound))
}
