package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the domain metrics of the clinic API.
type Metrics struct {
	AppointmentsScheduled prometheus.Counter
	SchedulingRejections  *prometheus.CounterVec
	StatusTransitions     *prometheus.CounterVec
	MedicalRecordsWritten *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		AppointmentsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "appointments_scheduled_total",
			Help:      "Total number of appointments successfully scheduled",
		}),
		SchedulingRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "rejections_total",
			Help:      "Appointment requests rejected by scheduling rules",
		}, []string{"reason"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "status_transitions_total",
			Help:      "Appointment status changes by from/to status",
		}, []string{"from", "to"}),
		MedicalRecordsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "records",
			Name:      "medical_records_written_total",
			Help:      "Medical records created or updated",
		}, []string{"operation"}),
	}

	reg.MustRegister(
		m.AppointmentsScheduled,
		m.SchedulingRejections,
		m.StatusTransitions,
		m.MedicalRecordsWritten,
	)
	return m
}

// Rejection reasons.
const (
	ReasonTooSoon  = "too_soon"
	ReasonConflict = "conflict"
	ReasonBusy     = "lock_busy"
)
