package confirm_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/infra/events"
	appointmentRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/ClinicBookingService/internal/integrations/staffservice"
	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/internal/service/availability"
	"github.com/m04kA/ClinicBookingService/pkg/logger"
	"github.com/m04kA/ClinicBookingService/pkg/ptr"
)

var fixedNow = time.Date(2025, 5, 31, 9, 0, 0, 0, time.UTC)

type fixedTime struct{}

func (fixedTime) Now() time.Time { return fixedNow }

type stubRepo struct {
	appointment *domain.Appointment
	updated     []*domain.Appointment
}

func (r *stubRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	if r.appointment == nil || r.appointment.ID != id {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *r.appointment
	return &cp, nil
}

func (r *stubRepo) Update(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.updated = append(r.updated, a)
	return a, nil
}

type stubAvailability struct {
	decision scheduling.Decision
	err      error
	calls    []availability.Candidate
}

func (s *stubAvailability) Evaluate(_ context.Context, c availability.Candidate) (*availability.Evaluation, error) {
	s.calls = append(s.calls, c)
	if s.err != nil {
		return nil, s.err
	}
	return &availability.Evaluation{
		Decision:        s.decision,
		Decisions:       []scheduling.Decision{s.decision},
		Policy:          scheduling.Policy{CategoryID: c.CategoryID},
		StartTime:       c.StartTime,
		DurationMinutes: c.Duration,
	}, nil
}

type stubStaff struct {
	err   error
	calls int
}

func (s *stubStaff) GetStaffMemberWithGracefulDegradation(_ context.Context, staffID string) (*staffservice.StaffMember, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &staffservice.StaffMember{ID: staffID, Name: "Dr. Omar", Active: true}, nil
}

type stubPublisher struct {
	events []events.Event
}

func (p *stubPublisher) Publish(_ context.Context, ev events.Event) {
	p.events = append(p.events, ev)
}

func pending() *domain.Appointment {
	return &domain.Appointment{
		ID:                "a1",
		Date:              time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime:         "10:00",
		EndTime:           "10:45",
		Status:            domain.StatusPending,
		ServiceID:         "laser-45",
		ServiceCategoryID: "laser",
		ServiceDuration:   "45",
		CustomerName:      "Dana",
		CustomerPhone:     "0590000000",
	}
}

type fixture struct {
	uc    *UseCase
	repo  *stubRepo
	avail *stubAvailability
	staff *stubStaff
	pub   *stubPublisher
}

func newFixture(decision scheduling.Decision) *fixture {
	f := &fixture{
		repo:  &stubRepo{appointment: pending()},
		avail: &stubAvailability{decision: decision},
		staff: &stubStaff{},
		pub:   &stubPublisher{},
	}
	f.uc = NewUseCase(f.repo, f.avail, f.staff, f.pub, fixedTime{}, logger.NewDiscard())
	return f
}

func TestExecute_Confirms(t *testing.T) {
	f := newFixture(scheduling.Admit())

	resp, err := f.uc.Execute(context.Background(), &Request{
		AdminID:       "admin",
		AppointmentID: "a1",
		StaffID:       " staff-1 ",
		AdminNote:     ptr.Ptr("first visit"),
	})
	require.NoError(t, err)

	a := resp.Appointment
	assert.Equal(t, domain.StatusConfirmed, a.Status)
	assert.Equal(t, "staff-1", *a.StaffID)
	assert.Equal(t, "Dr. Omar", *a.StaffName)
	assert.Equal(t, "first visit", *a.AdminNote)
	require.NotNil(t, a.ConfirmedAt)
	assert.True(t, a.ConfirmedAt.Equal(fixedNow))
	assert.Nil(t, a.OverrideNote)
	assert.Empty(t, resp.Warnings)

	require.Len(t, f.avail.calls, 2, "checked once and again right before the write")
	c := f.avail.calls[0]
	assert.Equal(t, scheduling.ModeAdmin, c.Mode)
	assert.Equal(t, "laser", c.CategoryID)
	assert.Equal(t, "a1", c.ExcludeID)
	assert.Equal(t, "staff-1", c.StaffID)
	assert.Equal(t, 45, c.Duration)
	assert.True(t, c.CustomTime)

	require.Len(t, f.pub.events, 1)
	assert.Equal(t, events.TypeAppointmentConfirmed, f.pub.events[0].Type)
}

func TestExecute_CapacityWarning(t *testing.T) {
	warning := scheduling.Violate(scheduling.ModeAdmin, scheduling.ViolationCapacity, "booking limit reached (2/2)")

	t.Run("not acknowledged", func(t *testing.T) {
		f := newFixture(warning)

		_, err := f.uc.Execute(context.Background(), &Request{AdminID: "admin", AppointmentID: "a1", StaffID: "staff-1"})
		require.Error(t, err)
		assert.ErrorIs(t, err, availability.ErrWarningsNotAcknowledged)

		var decision *availability.DecisionError
		require.True(t, errors.As(err, &decision))
		assert.Empty(t, f.repo.updated)
		assert.Zero(t, f.staff.calls)
		assert.Empty(t, f.pub.events)
	})

	t.Run("acknowledged", func(t *testing.T) {
		f := newFixture(warning)

		resp, err := f.uc.Execute(context.Background(), &Request{
			AdminID:             "admin",
			AppointmentID:       "a1",
			StaffID:             "staff-1",
			AcknowledgeWarnings: true,
		})
		require.NoError(t, err)

		require.NotNil(t, resp.Appointment.OverrideNote)
		assert.Equal(t, "booking limit reached (2/2)", *resp.Appointment.OverrideNote)
		require.Len(t, resp.Warnings, 1)
		assert.Equal(t, domain.StatusConfirmed, resp.Appointment.Status)
	})
}

func TestExecute_StaffDirectory(t *testing.T) {
	t.Run("unknown staff", func(t *testing.T) {
		f := newFixture(scheduling.Admit())
		f.staff.err = staffservice.ErrStaffNotFound

		_, err := f.uc.Execute(context.Background(), &Request{AdminID: "admin", AppointmentID: "a1", StaffID: "ghost"})
		assert.ErrorIs(t, err, ErrStaffNotFound)
		assert.Empty(t, f.repo.updated)
	})

	t.Run("directory unavailable", func(t *testing.T) {
		f := newFixture(scheduling.Admit())
		f.staff.err = staffservice.ErrServiceDegraded

		resp, err := f.uc.Execute(context.Background(), &Request{
			AdminID:       "admin",
			AppointmentID: "a1",
			StaffID:       "staff-1",
			StaffName:     ptr.Ptr("Omar (form)"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Omar (form)", *resp.Appointment.StaffName)
	})
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *fixture)
		req     *Request
		wantErr error
	}{
		{
			name:    "staff is required",
			req:     &Request{AdminID: "admin", AppointmentID: "a1", StaffID: "  "},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "admin note too long",
			req:     &Request{AdminID: "admin", AppointmentID: "a1", StaffID: "s", AdminNote: ptr.Ptr(string(make([]byte, domain.MaxNotesLength+1)))},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "not found",
			req:     &Request{AdminID: "admin", AppointmentID: "missing", StaffID: "s"},
			wantErr: ErrAppointmentNotFound,
		},
		{
			name:    "already confirmed",
			mutate:  func(f *fixture) { f.repo.appointment.Status = domain.StatusConfirmed },
			req:     &Request{AdminID: "admin", AppointmentID: "a1", StaffID: "s"},
			wantErr: ErrNotPending,
		},
		{
			name:    "cancelled",
			mutate:  func(f *fixture) { f.repo.appointment.Status = domain.StatusCancelled },
			req:     &Request{AdminID: "admin", AppointmentID: "a1", StaffID: "s"},
			wantErr: ErrNotPending,
		},
		{
			name:    "availability internal error",
			mutate:  func(f *fixture) { f.avail.err = availability.ErrInternal },
			req:     &Request{AdminID: "admin", AppointmentID: "a1", StaffID: "s"},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(scheduling.Admit())
			if tt.mutate != nil {
				tt.mutate(f)
			}

			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.repo.updated)
			assert.Empty(t, f.pub.events)
		})
	}
}
