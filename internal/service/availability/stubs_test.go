package availability

import (
	"context"
	"time"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	categoryRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/category"
	serviceRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/service"
	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/pkg/clinictime"
	"github.com/m04kA/ClinicBookingService/pkg/logger"
	"github.com/m04kA/ClinicBookingService/pkg/ptr"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

type stubAppointments struct {
	appointments []*domain.Appointment
	err          error
	dateCalls    int
	staffCalls   int
}

func (s *stubAppointments) GetByDate(_ context.Context, date time.Time) ([]*domain.Appointment, error) {
	s.dateCalls++
	if s.err != nil {
		return nil, s.err
	}
	var out []*domain.Appointment
	for _, a := range s.appointments {
		if a.Date.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAppointments) GetByStaffAndDate(_ context.Context, staffID string, date time.Time) ([]*domain.Appointment, error) {
	s.staffCalls++
	if s.err != nil {
		return nil, s.err
	}
	var out []*domain.Appointment
	for _, a := range s.appointments {
		if a.Date.Equal(date) && a.StaffID != nil && *a.StaffID == staffID {
			out = append(out, a)
		}
	}
	return out, nil
}

type stubCategories struct {
	categories map[string]*domain.Category
	err        error
	calls      int
}

func (s *stubCategories) GetByID(_ context.Context, id string) (*domain.Category, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	c, ok := s.categories[id]
	if !ok {
		return nil, categoryRepo.ErrCategoryNotFound
	}
	return c, nil
}

type stubServices struct {
	services map[string]*domain.Service
	err      error
}

func (s *stubServices) GetByID(_ context.Context, id string) (*domain.Service, error) {
	if s.err != nil {
		return nil, s.err
	}
	svc, ok := s.services[id]
	if !ok {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return svc, nil
}

type stubMetrics struct {
	decisions map[string]int
	conflicts int
	failOpen  map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{decisions: map[string]int{}, failOpen: map[string]int{}}
}

func (m *stubMetrics) RecordDecision(outcome, violation string) {
	m.decisions[outcome+"/"+violation]++
}

func (m *stubMetrics) RecordStaffConflicts(n int) { m.conflicts += n }

func (m *stubMetrics) RecordFailOpen(op string) { m.failOpen[op]++ }

var scenarioDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	appointments *stubAppointments
	categories   *stubCategories
	services     *stubServices
	metrics      *stubMetrics
	svc          *Service
}

// newFixture: категории laser (гибкая, лимит 2) и skin (фиксированная, лимит 1),
// услуги laser-30 (30 мин), laser-60 ("60 min"), skin-peel (битая длительность), orphan (категории нет).
// Часы клиники стоят на 2025-05-31 12:00 UTC.
func newFixture(appointments ...*domain.Appointment) *fixture {
	f := &fixture{
		appointments: &stubAppointments{appointments: appointments},
		categories: &stubCategories{categories: map[string]*domain.Category{
			"laser": {
				ID:           "laser",
				TimeType:     ptr.Ptr(domain.TimeTypeFlexible),
				BookingLimit: ptr.Ptr(2),
			},
			"skin": {
				ID:           "skin",
				TimeType:     ptr.Ptr(domain.TimeTypeFixed),
				BookingLimit: ptr.Ptr(1),
			},
		}},
		services: &stubServices{services: map[string]*domain.Service{
			"laser-30":  {ID: "laser-30", Name: "Laser small", CategoryID: "laser", Duration: "30"},
			"laser-60":  {ID: "laser-60", Name: "Laser full", CategoryID: "laser", Duration: "60 min"},
			"skin-peel": {ID: "skin-peel", Name: "Peeling", CategoryID: "skin", Duration: "abc"},
			"orphan":    {ID: "orphan", Name: "Consultation", CategoryID: "unknown", Duration: "30"},
		}},
		metrics: newStubMetrics(),
	}

	clock := clinictime.NewFixedClock(time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC), time.UTC)
	f.svc = NewService(
		f.appointments,
		f.categories,
		f.services,
		scheduling.StandardDefaults(),
		Grid{StartHour: 8, EndHour: 16, Step: 15},
		clock,
		f.metrics,
		logger.NewDiscard(),
	)
	return f
}

func appointment(id, category, start, duration string, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:                id,
		Date:              scenarioDate,
		StartTime:         types.TimeString(start),
		ServiceCategoryID: category,
		ServiceDuration:   duration,
		ServiceName:       "Service " + id,
		CustomerName:      "Customer " + id,
		Status:            status,
	}
}

func staffAppointment(id, category, start, duration, staffID string) *domain.Appointment {
	a := appointment(id, category, start, duration, domain.StatusConfirmed)
	a.StaffID = ptr.Ptr(staffID)
	return a
}
