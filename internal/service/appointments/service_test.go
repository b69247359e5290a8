package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/infra/events"
	appointmentRepo "github.com/m04kA/ClinicBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/ClinicBookingService/internal/service/appointments/models"
	"github.com/m04kA/ClinicBookingService/pkg/logger"
	"github.com/m04kA/ClinicBookingService/pkg/ptr"
)

type stubRepo struct {
	items     map[string]*domain.Appointment
	err       error
	updated   []*domain.Appointment
	deleted   []string
	lastQuery domain.AppointmentsFilter
}

func newStubRepo(items ...*domain.Appointment) *stubRepo {
	r := &stubRepo{items: map[string]*domain.Appointment{}}
	for _, a := range items {
		r.items[a.ID] = a
	}
	return r
}

func (r *stubRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubRepo) GetByCustomerID(_ context.Context, customerID string) ([]*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Appointment
	for _, a := range r.items {
		if a.CustomerID != nil && *a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubRepo) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	r.lastQuery = filter
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Appointment
	for _, a := range r.items {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *stubRepo) Update(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.updated = append(r.updated, a)
	r.items[a.ID] = a
	return a, nil
}

func (r *stubRepo) Delete(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.items[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(r.items, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type stubPublisher struct {
	events []events.Event
}

func (p *stubPublisher) Publish(_ context.Context, ev events.Event) {
	p.events = append(p.events, ev)
}

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestService(items ...*domain.Appointment) (*Service, *stubRepo, *stubPublisher) {
	repo := newStubRepo(items...)
	pub := &stubPublisher{}
	svc := NewService(repo, pub, logger.NewDiscard())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, pub
}

func testAppointment(id, customerID string, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:                id,
		Date:              time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime:         "10:00",
		EndTime:           "10:30",
		Status:            status,
		ServiceID:         "svc-1",
		ServiceName:       "Laser",
		ServiceCategoryID: "laser",
		ServiceDuration:   "30",
		ServicePrice:      decimal.NewFromInt(200),
		Discount:          decimal.NewFromInt(20),
		CustomerID:        ptr.Ptr(customerID),
		CustomerName:      "Dana",
		CustomerPhone:     "0590000000",
	}
}

func TestService_GetByID(t *testing.T) {
	svc, _, _ := newTestService(testAppointment("a1", "user-1", domain.StatusPending))

	got, err := svc.GetByID(context.Background(), "a1", models.Requester{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, "2025-06-02", got.Date)
	assert.True(t, decimal.NewFromInt(180).Equal(got.FinalPrice))

	_, err = svc.GetByID(context.Background(), "a1", models.Requester{UserID: "user-2"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), "a1", models.Requester{UserID: "admin", IsAdmin: true})
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), "missing", models.Requester{IsAdmin: true})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_GetByID_RepositoryError(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.err = errors.New("db down")

	_, err := svc.GetByID(context.Background(), "a1", models.Requester{IsAdmin: true})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_ListByCustomer(t *testing.T) {
	svc, _, _ := newTestService(
		testAppointment("a1", "user-1", domain.StatusPending),
		testAppointment("a2", "user-1", domain.StatusCancelled),
		testAppointment("a3", "user-2", domain.StatusPending),
	)

	got, err := svc.ListByCustomer(context.Background(), "user-1", models.Requester{UserID: "user-1"})
	require.NoError(t, err)
	assert.Len(t, got.Appointments, 2)

	_, err = svc.ListByCustomer(context.Background(), "user-1", models.Requester{UserID: "user-2"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	empty, err := svc.ListByCustomer(context.Background(), "user-9", models.Requester{IsAdmin: true})
	require.NoError(t, err)
	assert.NotNil(t, empty.Appointments)
	assert.Empty(t, empty.Appointments)
}

func TestService_List(t *testing.T) {
	svc, repo, _ := newTestService(
		testAppointment("a1", "user-1", domain.StatusPending),
		testAppointment("a2", "user-1", domain.StatusConfirmed),
	)

	got, err := svc.List(context.Background(), &models.ListRequest{Status: ptr.Ptr("confirmed")})
	require.NoError(t, err)
	require.Len(t, got.Appointments, 1)
	assert.Equal(t, "a2", got.Appointments[0].ID)
	require.NotNil(t, repo.lastQuery.Status)

	_, err = svc.List(context.Background(), &models.ListRequest{Status: ptr.Ptr("no_show")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Complete(t *testing.T) {
	svc, repo, pub := newTestService(
		testAppointment("a1", "user-1", domain.StatusConfirmed),
		testAppointment("a2", "user-1", domain.StatusPending),
	)
	paid := decimal.RequireFromString("150.50")

	got, err := svc.Complete(context.Background(), "a1", &models.CompleteRequest{
		AdminID:             "admin",
		StaffNoteToCustomer: ptr.Ptr("  apply cream twice a day "),
		ActualPaidAmount:    &paid,
	})
	require.NoError(t, err)

	assert.Equal(t, "completed", got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, "apply cream twice a day", *got.StaffNoteToCustomer)
	assert.True(t, paid.Equal(*repo.items["a1"].ActualPaidAmount))
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeAppointmentCompleted, pub.events[0].Type)

	_, err = svc.Complete(context.Background(), "a2", &models.CompleteRequest{AdminID: "admin"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	negative := decimal.NewFromInt(-1)
	_, err = svc.Complete(context.Background(), "a1", &models.CompleteRequest{ActualPaidAmount: &negative})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Cancel(t *testing.T) {
	tests := []struct {
		name      string
		status    domain.AppointmentStatus
		requester models.Requester
		wantErr   error
	}{
		{name: "owner cancels pending", status: domain.StatusPending, requester: models.Requester{UserID: "user-1"}},
		{name: "owner cancels confirmed", status: domain.StatusConfirmed, requester: models.Requester{UserID: "user-1"}},
		{name: "admin cancels", status: domain.StatusConfirmed, requester: models.Requester{UserID: "admin", IsAdmin: true}},
		{name: "stranger", status: domain.StatusPending, requester: models.Requester{UserID: "user-2"}, wantErr: ErrAccessDenied},
		{name: "completed", status: domain.StatusCompleted, requester: models.Requester{UserID: "user-1"}, wantErr: ErrCannotCancel},
		{name: "already cancelled", status: domain.StatusCancelled, requester: models.Requester{IsAdmin: true}, wantErr: ErrCannotCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, pub := newTestService(testAppointment("a1", "user-1", tt.status))

			got, err := svc.Cancel(context.Background(), "a1", &models.CancelRequest{
				Requester:          tt.requester,
				CancellationReason: "changed plans",
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, pub.events)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "cancelled", got.Status)
			assert.Equal(t, "changed plans", *got.CancellationReason)
			assert.Equal(t, fixedNow.Format(time.RFC3339), *got.CancelledAt)
			require.Len(t, pub.events, 1)
			assert.Equal(t, events.TypeAppointmentCancelled, pub.events[0].Type)
		})
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo, pub := newTestService(testAppointment("a1", "user-1", domain.StatusCompleted))

	require.NoError(t, svc.Delete(context.Background(), "a1", "admin"))
	assert.Equal(t, []string{"a1"}, repo.deleted)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeAppointmentDeleted, pub.events[0].Type)
	assert.Equal(t, "a1", pub.events[0].AppointmentID)

	assert.ErrorIs(t, svc.Delete(context.Background(), "a1", "admin"), ErrAppointmentNotFound)
}
