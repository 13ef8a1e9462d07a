package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry("test", prometheus.NewRegistry())

	m.IncAppointmentBooked("pending")
	m.IncAppointmentBooked("pending")
	m.IncBookingConflict("slot_taken")
	m.IncStatusTransition("pending", "confirmed")
	m.ObserveHTTPRequest("GET", "/api/v1/appointments/{appointmentId}", 200, 10*time.Millisecond)
	m.ObserveDBQuery("select", errors.New("boom"), time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.appointmentsBooked.WithLabelValues("pending")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bookingConflicts.WithLabelValues("slot_taken")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.statusTransitions.WithLabelValues("pending", "confirmed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/appointments/{appointmentId}", "200")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncAppointmentBooked("pending")
		m.IncBookingConflict("slot_taken")
		m.IncStatusTransition("pending", "cancelled")
		m.ObserveHTTPRequest("GET", "/", 200, time.Second)
		m.ObserveDBQuery("select", nil, time.Second)
		m.SetDBPoolStats(1, 1, 0, 0)
	})
}
