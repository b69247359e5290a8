package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_DomainCounters(t *testing.T) {
	m := NewWithRegistry("clinic-booking", prometheus.NewRegistry())

	m.RecordDecision("reject", "capacity")
	m.RecordDecision("reject", "capacity")
	m.RecordDecision("admit", "")
	m.RecordStaffConflicts(2)
	m.RecordStaffConflicts(0)
	m.RecordFailOpen("check_time_availability")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AvailabilityDecisions.WithLabelValues("clinic-booking", "reject", "capacity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AvailabilityDecisions.WithLabelValues("clinic-booking", "admit", "none")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StaffConflicts.WithLabelValues("clinic-booking")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FailOpen.WithLabelValues("clinic-booking", "check_time_availability")))
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordDecision("warn", "staff")
		m.RecordStaffConflicts(1)
		m.RecordFailOpen("check_overlap")
		m.RecordRateLimited()
		m.ObserveHTTPRequest("GET", "/api/v1/bookings", 200, 0.01)
	})
}

func TestMetrics_ObserveHTTPRequest(t *testing.T) {
	m := NewWithRegistry("clinic-booking", prometheus.NewRegistry())

	m.ObserveHTTPRequest("POST", "/api/v1/bookings", 409, 0.02)
	m.ObserveHTTPRequest("POST", "/api/v1/bookings", 409, 0.03)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("clinic-booking", "POST", "/api/v1/bookings", "409")))
}
