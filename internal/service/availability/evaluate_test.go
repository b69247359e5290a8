package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

func scenarioFixture() *fixture {
	return newFixture(
		appointment("a", "laser", "09:00", "60", domain.StatusConfirmed),
		appointment("b", "laser", "09:15", "60", domain.StatusPending),
	)
}

func TestEvaluate_CustomerCapacityReject(t *testing.T) {
	f := scenarioFixture()

	ev, err := f.svc.Evaluate(context.Background(), Candidate{
		Mode:      scheduling.ModeCustomer,
		ServiceID: "laser-30",
		Date:      scenarioDate,
		StartTime: "09:30",
	})
	require.NoError(t, err)

	assert.True(t, ev.Decision.IsReject())
	assert.Equal(t, scheduling.ViolationCapacity, ev.Decision.Violation)
	assert.Contains(t, ev.Decision.Reason, "(2/2)")
	assert.Equal(t, types.TimeString("10:00"), ev.EndTime)
	assert.Equal(t, 30, ev.DurationMinutes)

	err = ev.Err(true)
	require.Error(t, err, "acknowledgement never lifts a reject")
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	var decisionErr *DecisionError
	require.True(t, errors.As(err, &decisionErr))
	assert.Equal(t, 3, decisionErr.Load.Max)
}

func TestEvaluate_AdminCapacityWarns(t *testing.T) {
	f := scenarioFixture()

	ev, err := f.svc.Evaluate(context.Background(), Candidate{
		Mode:      scheduling.ModeAdmin,
		ServiceID: "laser-30",
		Date:      scenarioDate,
		StartTime: "09:30",
	})
	require.NoError(t, err)

	assert.True(t, ev.Decision.IsWarn())
	assert.True(t, ev.Decision.Proceedable)
	assert.ErrorIs(t, ev.Err(false), ErrWarningsNotAcknowledged)
	assert.NoError(t, ev.Err(true))
	assert.Len(t, ev.Warnings(), 1)
}

func TestEvaluate_FixedSlots(t *testing.T) {
	f := newFixture()

	ev, err := f.svc.Evaluate(context.Background(), Candidate{
		Mode:      scheduling.ModeCustomer,
		ServiceID: "skin-peel",
		Date:      scenarioDate,
		StartTime: "09:00",
	})
	require.NoError(t, err)
	assert.ErrorIs(t, ev.Err(false), ErrPolicyViolation)

	ev, err = f.svc.Evaluate(context.Background(), Candidate{
		Mode:      scheduling.ModeCustomer,
		ServiceID: "skin-peel",
		Date:      scenarioDate,
		StartTime: "10:00",
	})
	require.NoError(t, err)
	assert.True(t, ev.Decision.IsAdmit())
	assert.Equal(t, 60, ev.DurationMinutes)

	ev, err = f.svc.Evaluate(context.Background(), Candidate{
		Mode:       scheduling.ModeAdmin,
		ServiceID:  "skin-peel",
		Date:       scenarioDate,
		StartTime:  "09:00",
		EndTime:    "09:45",
		CustomTime: true,
	})
	require.NoError(t, err)
	assert.True(t, ev.Decision.IsAdmit())
	assert.Equal(t, 45, ev.DurationMinutes)
	assert.Equal(t, types.TimeString("09:45"), ev.EndTime)
}

func TestEvaluate_StaffConflict(t *testing.T) {
	f := newFixture(staffAppointment("x", "skin", "09:00", "60", "staff-1"))

	ev, err := f.svc.Evaluate(context.Background(), Candidate{
		Mode:      scheduling.ModeCustomer,
		ServiceID: "laser-30",
		Date:      scenarioDate,
		StartTime: "09:30",
		StaffID:   "staff-1",
	})
	require.NoError(t, err)
	assert.ErrorIs(t, ev.Err(false), ErrStaffConflict)
	require.Len(t, ev.StaffConflicts, 1)
	assert.Equal(t, "x", ev.StaffConflicts[0].AppointmentID)

	ev, err = f.svc.Evaluate(context.Background(), Candidate{
		Mode:      scheduling.ModeAdmin,
		ServiceID: "laser-30",
		Date:      scenarioDate,
		StartTime: "09:30",
		StaffID:   "staff-1",
		ExcludeID: "x",
	})
	require.NoError(t, err)
	assert.True(t, ev.Decision.IsAdmit(), "the appointment itself is not a conflict")
}

func TestEvaluate_AdminWarningsAreJoined(t *testing.T) {
	f := newFixture(
		appointment("a", "laser", "16:00", "60", domain.StatusConfirmed),
		appointment("b", "laser", "16:00", "60", domain.StatusConfirmed),
		staffAppointment("c", "skin", "15:30", "60", "staff-1"),
	)

	ev, err := f.svc.Evaluate(context.Background(), Candidate{
		Mode:      scheduling.ModeAdmin,
		ServiceID: "laser-60",
		Date:      scenarioDate,
		StartTime: "16:00",
		StaffID:   "staff-1",
	})
	require.NoError(t, err)

	assert.True(t, ev.Decision.IsWarn())
	assert.Len(t, ev.Warnings(), 3)
	assert.Equal(t, scheduling.ViolationValidation, ev.Decision.Violation)
	assert.Contains(t, ev.Decision.Reason, "; ")
}

func TestEvaluate_FrozenCategoryWithoutCatalog(t *testing.T) {
	f := scenarioFixture()
	f.services.err = errors.New("catalog is down")

	ev, err := f.svc.Evaluate(context.Background(), Candidate{
		Mode:       scheduling.ModeAdmin,
		ServiceID:  "laser-30",
		CategoryID: "laser",
		Date:       scenarioDate,
		StartTime:  "09:30",
		Duration:   30,
		ExcludeID:  "b",
	})
	require.NoError(t, err)

	assert.Nil(t, ev.Service)
	assert.True(t, ev.Decision.IsAdmit())
	assert.Equal(t, 1, ev.Load.Current())
}

func TestEvaluate_FailOpen(t *testing.T) {
	f := scenarioFixture()
	f.appointments.err = errors.New("down")

	ev, err := f.svc.Evaluate(context.Background(), Candidate{
		Mode:      scheduling.ModeCustomer,
		ServiceID: "laser-30",
		Date:      scenarioDate,
		StartTime: "09:30",
		StaffID:   "staff-1",
	})
	require.NoError(t, err)

	assert.True(t, ev.FailedOpen)
	assert.True(t, ev.Decision.IsAdmit())
	assert.Equal(t, 2, f.metrics.failOpen[opEvaluate])
}

func TestEvaluate_InvalidInput(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name      string
		candidate Candidate
		wantErr   error
	}{
		{
			name:      "missing date",
			candidate: Candidate{ServiceID: "laser-30", StartTime: "09:30"},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "malformed time",
			candidate: Candidate{ServiceID: "laser-30", Date: scenarioDate, StartTime: "25:00"},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "end before start",
			candidate: Candidate{Mode: scheduling.ModeAdmin, ServiceID: "skin-peel", Date: scenarioDate, StartTime: "10:00", EndTime: "09:00"},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "duration too long",
			candidate: Candidate{ServiceID: "laser-30", Date: scenarioDate, StartTime: "09:30", Duration: 600},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "past midnight",
			candidate: Candidate{ServiceID: "laser-30", Date: scenarioDate, StartTime: "23:45", Duration: 60},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "unknown service",
			candidate: Candidate{ServiceID: "missing", Date: scenarioDate, StartTime: "09:30"},
			wantErr:   ErrServiceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Evaluate(context.Background(), tt.candidate)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEvaluate_CatalogFailureIsInternal(t *testing.T) {
	f := newFixture()
	f.services.err = errors.New("catalog is down")

	_, err := f.svc.Evaluate(context.Background(), Candidate{ServiceID: "laser-30", Date: scenarioDate, StartTime: "09:30"})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestEvaluation_OverrideNote(t *testing.T) {
	ev := &Evaluation{Decisions: []scheduling.Decision{
		scheduling.Admit(),
		scheduling.Violate(scheduling.ModeAdmin, scheduling.ViolationCapacity, "limit"),
		scheduling.Violate(scheduling.ModeAdmin, scheduling.ViolationStaff, "staff"),
	}}
	require.NotNil(t, ev.OverrideNote())
	assert.Equal(t, "limit; staff", *ev.OverrideNote())

	assert.Nil(t, (&Evaluation{Decisions: []scheduling.Decision{scheduling.Admit()}}).OverrideNote())
}

func TestEvaluation_Recheck(t *testing.T) {
	capacity := scheduling.Violate(scheduling.ModeAdmin, scheduling.ViolationCapacity, "booking limit reached for this time (2/2)")
	staff := scheduling.Violate(scheduling.ModeAdmin, scheduling.ViolationStaff, "staff")
	eval := func(decisions ...scheduling.Decision) *Evaluation {
		return &Evaluation{Decision: scheduling.Combine(decisions...), Decisions: decisions}
	}

	// без первой проверки - то же, что Err
	assert.NoError(t, eval(scheduling.Admit(), capacity).Recheck(nil, true))
	assert.ErrorIs(t, eval(scheduling.Admit(), capacity).Recheck(nil, false), ErrWarningsNotAcknowledged)

	// те же виды предупреждений остаются подтверждёнными
	assert.NoError(t, eval(capacity, staff).Recheck(eval(staff, capacity), true))
	assert.NoError(t, eval(scheduling.Admit()).Recheck(eval(capacity), true))

	// мощность заполнилась между проверками
	err := eval(scheduling.Admit(), capacity).Recheck(eval(scheduling.Admit(), scheduling.Admit()), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWarningsNotAcknowledged)
	var decisionErr *DecisionError
	require.ErrorAs(t, err, &decisionErr)
	assert.Equal(t, scheduling.ViolationCapacity, decisionErr.Decision.Violation)
	assert.True(t, decisionErr.Decision.Proceedable)

	// отказ не зависит от подтверждения
	reject := scheduling.Violate(scheduling.ModeCustomer, scheduling.ViolationCapacity, "limit")
	assert.ErrorIs(t, eval(reject).Recheck(eval(reject), true), ErrCapacityExceeded)
}
