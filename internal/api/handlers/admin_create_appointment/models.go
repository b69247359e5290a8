package admin_create_appointment

import (
	"github.com/m04kA/ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/ClinicBookingService/internal/service/appointments/models"
	adminCreate "github.com/m04kA/ClinicBookingService/internal/usecase/admin_create_appointment"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID           string  `json:"serviceId"`
	Date                string  `json:"date"`
	Time                string  `json:"time"`
	EndTime             *string `json:"endTime,omitempty"`
	Duration            *int    `json:"duration,omitempty"` // минуты
	CustomTime          bool    `json:"customTime"`
	CustomerID          *string `json:"customerId,omitempty"`
	CustomerName        string  `json:"customerName"`
	CustomerPhone       string  `json:"customerPhone"`
	CustomerEmail       *string `json:"customerEmail,omitempty"`
	Notes               *string `json:"notes,omitempty"`
	StaffID             *string `json:"staffId,omitempty"`
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
func (r *CreateAppointmentRequest) ToUseCaseRequest(adminID string) (*adminCreate.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := handlers.ParseTime(r.Time)
	if err != nil {
		return nil, err
	}

	var endTime types.TimeString
	if r.EndTime != nil && *r.EndTime != "" {
		if endTime, err = handlers.ParseTime(*r.EndTime); err != nil {
			return nil, err
		}
	}

	req := &adminCreate.Request{
		AdminID:             adminID,
		ServiceID:           r.ServiceID,
		Date:                date,
		StartTime:           startTime,
		EndTime:             endTime,
		CustomTime:          r.CustomTime,
		CustomerID:          r.CustomerID,
		CustomerName:        r.CustomerName,
		CustomerPhone:       r.CustomerPhone,
		CustomerEmail:       r.CustomerEmail,
		Notes:               r.Notes,
		StaffID:             r.StaffID,
		StaffName:           r.StaffName,
		AdminNote:           r.AdminNote,
		AcknowledgeWarnings: r.AcknowledgeWarnings,
	}
	if r.Duration != nil {
		req.Duration = *r.Duration
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *adminCreate.Response) *AppointmentResponse {
	return &AppointmentResponse{
		AppointmentResponse: models.FromDomainAppointment(resp.Appointment),
		Warnings:            handlers.FromDecisions(resp.Warnings),
		FailedOpen:          resp.FailedOpen,
	}
}
