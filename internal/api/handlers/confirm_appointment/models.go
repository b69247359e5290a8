package confirm_appointment

import (
	"github.com/m04kA/ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/ClinicBookingService/internal/service/appointments/models"
	confirmAppointment "github.com/m04kA/ClinicBookingService/internal/usecase/confirm_appointment"
)

// ConfirmAppointmentRequest HTTP request model
type ConfirmAppointmentRequest struct {
	StaffID             string  `json:"staffId"`
	StaffName           *string `json:"staffName,omitempty"`
	AdminNote           *string `json:"adminNote,omitempty"`
	AcknowledgeWarnings bool    `json:"acknowledgeWarnings"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	*models.AppointmentResponse
	Warnings   []handlers.WarningResponse `json:"warnings,omitempty"`
	FailedOpen bool                       `json:"failedOpen,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ConfirmAppointmentRequest) ToUseCaseRequest(adminID, appointmentID string) *confirmAppointment.Request {
	return &confirmAppointment.Request{
		AdminID:             adminID,
		AppointmentID:       appointmentID,
		StaffID:             r.StaffID,
		StaffName:           r.StaffName,
		AdminNote:           r.AdminNote,
		AcknowledgeWarnings: r.AcknowledgeWarnings,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		AppointmentResponse: models.FromDomainAppointment(resp.Appointment),
		Warnings:            handlers.FromDecisions(resp.Warnings),
		FailedOpen:          resp.FailedOpen,
	}
}
