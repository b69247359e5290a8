package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/ClinicBookingService/internal/domain"
)

// Типы событий жизненного цикла записи
const (
	TypeAppointmentCreated   = "appointment.created"
	TypeAppointmentUpdated   = "appointment.updated"
	TypeAppointmentConfirmed = "appointment.confirmed"
	TypeAppointmentCompleted = "appointment.completed"
	TypeAppointmentCancelled = "appointment.cancelled"
	TypeAppointmentDeleted   = "appointment.deleted"
)

// Event конверт события, ключ сообщения в Kafka - ID записи
type Event struct {
	ID            string             `json:"id"`
	Type          string             `json:"type"`
	AppointmentID string             `json:"appointment_id"`
	Actor         string             `json:"actor,omitempty"`
	OccurredAt    time.Time          `json:"occurred_at"`
	Appointment   AppointmentPayload `json:"appointment"`
}

// AppointmentPayload снимок записи на момент события
type AppointmentPayload struct {
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time,omitempty"`
	Status        string  `json:"status"`
	ServiceID     string  `json:"service_id"`
	ServiceName   string  `json:"service_name"`
	CategoryID    string  `json:"category_id"`
	CustomerID    *string `json:"customer_id,omitempty"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	StaffID       *string `json:"staff_id,omitempty"`
	StaffName     *string `json:"staff_name,omitempty"`
	OverrideNote  *string `json:"override_note,omitempty"`
}

// NewAppointmentEvent собирает событие из записи
func NewAppointmentEvent(eventType string, a *domain.Appointment, actor string) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		AppointmentID: a.ID,
		Actor:         actor,
		OccurredAt:    time.Now().UTC(),
		Appointment: AppointmentPayload{
			Date:          a.Date.Format(domain.DateFormat),
			StartTime:     a.StartTime.String(),
			EndTime:       a.EndTime.String(),
			Status:        string(a.Status),
			ServiceID:     a.ServiceID,
			ServiceName:   a.ServiceName,
			CategoryID:    a.ServiceCategoryID,
			CustomerID:    a.CustomerID,
			CustomerName:  a.CustomerName,
			CustomerPhone: a.CustomerPhone,
			StaffID:       a.StaffID,
			StaffName:     a.StaffName,
			OverrideNote:  a.OverrideNote,
		},
	}
}
