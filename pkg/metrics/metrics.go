package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics собирает HTTP, DB и доменные метрики сервиса.
// Все методы безопасны для nil-получателя: выключенные метрики не требуют проверок у вызывающего.
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	AvailabilityDecisions *prometheus.CounterVec
	StaffConflicts        *prometheus.CounterVec
	FailOpen              *prometheus.CounterVec
	RateLimited           *prometheus.CounterVec
}

// New регистрирует метрики в default registry (его отдаёт promhttp.Handler)
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),
		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),
		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),
		AvailabilityDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_decisions_total",
			Help: "Availability decisions by outcome and violation kind",
		}, []string{"service", "outcome", "violation"}),
		StaffConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "staff_conflicts_total",
			Help: "Number of staff double-booking conflicts detected",
		}, []string{"service"}),
		FailOpen: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_fail_open_total",
			Help: "Availability checks answered as available because a read failed",
		}, []string{"service", "operation"}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}, []string{"service"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.AvailabilityDecisions,
		m.StaffConflicts,
		m.FailOpen,
		m.RateLimited,
	)

	return m
}

func (m *Metrics) RecordDecision(outcome, violation string) {
	if m == nil {
		return
	}
	if violation == "" {
		violation = "none"
	}
	m.AvailabilityDecisions.WithLabelValues(m.serviceName, outcome, violation).Inc()
}

func (m *Metrics) RecordStaffConflicts(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.StaffConflicts.WithLabelValues(m.serviceName).Add(float64(n))
}

func (m *Metrics) RecordFailOpen(operation string) {
	if m == nil {
		return
	}
	m.FailOpen.WithLabelValues(m.serviceName, operation).Inc()
}

func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(m.serviceName).Inc()
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, route).Observe(seconds)
}
