package confirm_appointment

import (
	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/internal/scheduling"
)

// Request подтверждение записи с назначением мастера
type Request struct {
	AdminID             string
	AppointmentID       string
	StaffID             string  // обязателен
	StaffName           *string // имя из формы, если справочник недоступен
	AdminNote           *string
	AcknowledgeWarnings bool
}

// Response модель ответа с подтверждённой записью
type Response struct {
	Appointment *domain.Appointment
	Warnings    []scheduling.Decision
	FailedOpen  bool
}
