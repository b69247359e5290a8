package update_appointment

import (
	"context"
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
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

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

// stubAvailability повторяет движок: окончание = старт + длительность
type stubAvailability struct {
	decision scheduling.Decision
	calls    []availability.Candidate
}

func (s *stubAvailability) Evaluate(_ context.Context, c availability.Candidate) (*availability.Evaluation, error) {
	s.calls = append(s.calls, c)
	iv, _ := scheduling.NewInterval(c.StartTime, c.Duration)
	if !c.EndTime.IsZero() {
		iv, _ = scheduling.IntervalBetween(c.StartTime, c.EndTime)
	}
	end, _ := iv.EndTime()
	return &availability.Evaluation{
		Decision:        s.decision,
		Decisions:       []scheduling.Decision{s.decision},
		Policy:          scheduling.Policy{CategoryID: c.CategoryID},
		StartTime:       c.StartTime,
		EndTime:         end,
		DurationMinutes: iv.Duration(),
	}, nil
}

type stubStaff struct {
	err error
}

func (s *stubStaff) GetStaffMemberWithGracefulDegradation(_ context.Context, staffID string) (*staffservice.StaffMember, error) {
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

func existing() *domain.Appointment {
	return &domain.Appointment{
		ID:                "a1",
		Date:              time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime:         "09:00",
		EndTime:           "10:00",
		Status:            domain.StatusConfirmed,
		ServiceID:         "laser-60",
		ServiceCategoryID: "laser-old",
		ServiceDuration:   "abc",
		CustomerName:      "Dana",
		CustomerPhone:     "0590000000",
	}
}

func newUseCase(decision scheduling.Decision) (*UseCase, *stubRepo, *stubAvailability, *stubPublisher) {
	repo := &stubRepo{appointment: existing()}
	avail := &stubAvailability{decision: decision}
	pub := &stubPublisher{}
	uc := NewUseCase(repo, avail, &stubStaff{}, pub, logger.NewDiscard())
	return uc, repo, avail, pub
}

func TestExecute_NonSchedulingChangeSkipsChecks(t *testing.T) {
	uc, repo, avail, pub := newUseCase(scheduling.Admit())

	resp, err := uc.Execute(context.Background(), &Request{
		AdminID:       "admin",
		AppointmentID: "a1",
		Notes:         ptr.Ptr("bring previous results"),
	})
	require.NoError(t, err)

	assert.False(t, resp.Rechecked)
	assert.Empty(t, avail.calls)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, "bring previous results", *resp.Appointment.Notes)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeAppointmentUpdated, pub.events[0].Type)
}

func TestExecute_TimeChangeIsRecheckedAgainstFrozenCategory(t *testing.T) {
	uc, _, avail, _ := newUseCase(scheduling.Admit())

	resp, err := uc.Execute(context.Background(), &Request{
		AdminID:       "admin",
		AppointmentID: "a1",
		StartTime:     ptr.Ptr(types.TimeString("11:00")),
	})
	require.NoError(t, err)

	assert.True(t, resp.Rechecked)
	require.Len(t, avail.calls, 2)
	c := avail.calls[0]
	assert.Equal(t, "laser-old", c.CategoryID)
	assert.Equal(t, "a1", c.ExcludeID)
	assert.Equal(t, 60, c.Duration, "malformed stored duration is coerced to the default")
	assert.False(t, c.CustomTime)
	assert.Equal(t, scheduling.ModeAdmin, c.Mode)

	assert.Equal(t, "11:00", resp.Appointment.StartTime.String())
	assert.Equal(t, "12:00", resp.Appointment.EndTime.String())
	assert.Equal(t, "60", resp.Appointment.ServiceDuration)
	assert.Nil(t, resp.Appointment.OverrideNote)
}

func TestExecute_WarningsNeedAcknowledgement(t *testing.T) {
	warning := scheduling.Violate(scheduling.ModeAdmin, scheduling.ViolationStaff, "staff member already has 1 overlapping appointment(s)")
	uc, repo, _, _ := newUseCase(warning)

	req := &Request{AdminID: "admin", AppointmentID: "a1", StaffID: ptr.Ptr("staff-2")}
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, availability.ErrWarningsNotAcknowledged)
	assert.Empty(t, repo.updated)

	req.AcknowledgeWarnings = true
	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "staff-2", *resp.Appointment.StaffID)
	assert.Equal(t, "Dr. Omar", *resp.Appointment.StaffName)
	require.NotNil(t, resp.Appointment.OverrideNote)
	assert.Contains(t, *resp.Appointment.OverrideNote, "overlapping")
}

func TestExecute_StaffOnlyChangeKeepsCustomTime(t *testing.T) {
	uc, _, avail, _ := newUseCase(scheduling.Admit())

	_, err := uc.Execute(context.Background(), &Request{AdminID: "admin", AppointmentID: "a1", StaffID: ptr.Ptr("staff-2")})
	require.NoError(t, err)
	require.NotEmpty(t, avail.calls)
	assert.True(t, avail.calls[0].CustomTime)
	assert.Equal(t, "staff-2", avail.calls[0].StaffID)
}

func TestExecute_ExplicitEndTime(t *testing.T) {
	uc, _, avail, _ := newUseCase(scheduling.Admit())

	resp, err := uc.Execute(context.Background(), &Request{
		AdminID:       "admin",
		AppointmentID: "a1",
		EndTime:       ptr.Ptr(types.TimeString("09:45")),
	})
	require.NoError(t, err)
	assert.Zero(t, avail.calls[0].Duration)
	assert.Equal(t, "45", resp.Appointment.ServiceDuration)
}

func TestExecute_Errors(t *testing.T) {
	uc, repo, _, _ := newUseCase(scheduling.Admit())

	_, err := uc.Execute(context.Background(), &Request{AdminID: "admin", AppointmentID: "missing"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	repo.appointment.Status = domain.StatusCompleted
	_, err = uc.Execute(context.Background(), &Request{AdminID: "admin", AppointmentID: "a1"})
	assert.ErrorIs(t, err, ErrNotEditable)

	_, err = uc.Execute(context.Background(), &Request{AdminID: "admin", AppointmentID: "a1", Duration: ptr.Ptr(0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
