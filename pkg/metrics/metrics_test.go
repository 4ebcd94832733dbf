package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegisterOnPrivateRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "vetclinic")

	m.AppointmentsScheduled.Inc()
	m.SchedulingRejections.WithLabelValues(ReasonConflict).Inc()
	m.StatusTransitions.WithLabelValues("scheduled", "completed").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.AppointmentsScheduled))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SchedulingRejections.WithLabelValues(ReasonConflict)))

	// a second registry accepts a fresh set without clashing
	assert.NotPanics(t, func() { NewMetrics(prometheus.NewRegistry(), "vetclinic") })
}
