package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/vetclinic-api/pkg/clock"
)

var errBoom = errors.New("boom")

func fail() error { return errBoom }

func succeed() error { return nil }

func TestOpensAfterMaxFailures(t *testing.T) {
	clk := clock.NewMock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	cb := NewCircuitBreaker(Settings{Name: "redis", MaxFailures: 3, Timeout: time.Minute, Clock: clk})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errBoom)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(Settings{MaxFailures: 2})

	assert.Error(t, cb.Execute(fail))
	assert.NoError(t, cb.Execute(succeed))
	assert.Error(t, cb.Execute(fail))
	assert.Equal(t, StateClosed, cb.State())
}

func TestHalfOpenProbe(t *testing.T) {
	clk := clock.NewMock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	cb := NewCircuitBreaker(Settings{MaxFailures: 1, Timeout: time.Minute, Clock: clk})

	assert.Error(t, cb.Execute(fail))
	assert.Equal(t, StateOpen, cb.State())

	clk.Advance(time.Minute)
	assert.ErrorIs(t, cb.Execute(fail), errBoom)
	assert.Equal(t, StateOpen, cb.State(), "failed probe re-opens")

	clk.Advance(time.Minute)
	assert.NoError(t, cb.Execute(succeed))
	assert.Equal(t, StateClosed, cb.State())
}
