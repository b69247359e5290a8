package update_appointment

import (
	"github.com/m04kA/ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/ClinicBookingService/internal/service/appointments/models"
	updateAppointment "github.com/m04kA/ClinicBookingService/internal/usecase/update_appointment"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// UpdateAppointmentRequest HTTP request model. Отсутствующее поле не меняется.
type UpdateAppointmentRequest struct {
	Date                *string `json:"date,omitempty"`
	Time                *string `json:"time,omitempty"`
	EndTime             *string `json:"endTime,omitempty"`
	Duration            *int    `json:"duration,omitempty"`
	CustomTime          bool    `json:"customTime"`
	StaffID             *string `json:"staffId,omitempty"` // "" снимает мастера
	StaffName           *string `json:"staffName,omitempty"`
	CustomerName        *string `json:"customerName,omitempty"`
	CustomerPhone       *string `json:"customerPhone,omitempty"`
	CustomerEmail       *string `json:"customerEmail,omitempty"`
	Notes               *string `json:"notes,omitempty"`
	AdminNote           *string `json:"adminNote,omitempty"`
	AcknowledgeWarnings bool    `json:"acknowledgeWarnings"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	*models.AppointmentResponse
	Rechecked  bool                       `json:"rechecked"`
	Warnings   []handlers.WarningResponse `json:"warnings,omitempty"`
	FailedOpen bool                       `json:"failedOpen,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateAppointmentRequest) ToUseCaseRequest(adminID, appointmentID string) (*updateAppointment.Request, error) {
	req := &updateAppointment.Request{
		AdminID:             adminID,
		AppointmentID:       appointmentID,
		Duration:            r.Duration,
		CustomTime:          r.CustomTime,
		StaffID:             r.StaffID,
		StaffName:           r.StaffName,
		CustomerName:        r.CustomerName,
		CustomerPhone:       r.CustomerPhone,
		CustomerEmail:       r.CustomerEmail,
		Notes:               r.Notes,
		AdminNote:           r.AdminNote,
		AcknowledgeWarnings: r.AcknowledgeWarnings,
	}

	if r.Date != nil {
		date, err := handlers.ParseDate(*r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	var err error
	if req.StartTime, err = parseOptionalTime(r.Time); err != nil {
		return nil, err
	}
	if req.EndTime, err = parseOptionalTime(r.EndTime); err != nil {
		return nil, err
	}
	return req, nil
}

func parseOptionalTime(raw *string) (*types.TimeString, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := handlers.ParseTime(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		AppointmentResponse: models.FromDomainAppointment(resp.Appointment),
		Rechecked:           resp.Rechecked,
		Warnings:            handlers.FromDecisions(resp.Warnings),
		FailedOpen:          resp.FailedOpen,
	}
}
