package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// IsValid returns true for one of the four known statuses
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for completed and cancelled
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the lifecycle allows moving to next
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is a booked (or requested) visit to the clinic.
// ServiceCategoryID, ServiceName and ServiceDuration are denormalized at booking time
// and never follow later changes of the service catalog.
type Appointment struct {
	ID        string
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString // пусто для старых записей, тогда конец = StartTime + длительность
	Status    AppointmentStatus

	ServiceID         string
	ServiceName       string
	ServiceCategoryID string
	ServiceDuration   string // сырое значение, перед использованием проходит scheduling.CoerceDuration
	ServicePrice      decimal.Decimal

	CustomerID    *string
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	Notes         *string

	StaffID   *string
	StaffName *string

	CouponCode *string
	Discount   decimal.Decimal

	AdminNote           *string
	OverrideNote        *string // предупреждения, которые администратор подтвердил при сохранении
	StaffNoteToCustomer *string
	StaffInternalNote   *string
	ActualPaidAmount    *decimal.Decimal

	CreatedByAdmin bool
	CreatedBy      *string

	CancellationReason *string
	CancelledAt        *time.Time
	ConfirmedAt        *time.Time
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled returns true if the appointment no longer occupies capacity
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status.CanTransitionTo(StatusCancelled)
}

// CanBeUpdated returns true while the appointment is not terminal
func (a *Appointment) CanBeUpdated() bool {
	return !a.Status.IsTerminal()
}

// HasStaff returns true if a staff member is assigned
func (a *Appointment) HasStaff() bool {
	return a.StaffID != nil && *a.StaffID != ""
}

// FinalPrice returns the service price minus the discount, never below zero
func (a *Appointment) FinalPrice() decimal.Decimal {
	final := a.ServicePrice.Sub(a.Discount)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}

// AppointmentsFilter фильтр для списка записей в админке
type AppointmentsFilter struct {
	Date       *time.Time
	Status     *AppointmentStatus
	StaffID    *string
	CustomerID *string
}
