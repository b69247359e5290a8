package create_booking

import (
	"github.com/m04kA/ClinicBookingService/internal/api/handlers"
	"github.com/m04kA/ClinicBookingService/internal/service/appointments/models"
	createBooking "github.com/m04kA/ClinicBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ServiceID     string  `json:"serviceId"`
	Date          string  `json:"date"` // "2025-06-01"
	Time          string  `json:"time"` // "10:00"
	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	StaffID       *string `json:"staffId,omitempty"`
	StaffName     *string `json:"staffName,omitempty"`
	CouponCode    *string `json:"couponCode,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	*models.AppointmentResponse
	FailedOpen bool `json:"failedOpen,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID string) (*createBooking.Request, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := handlers.ParseTime(r.Time)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CustomerID:    customerID,
		ServiceID:     r.ServiceID,
		Date:          date,
		StartTime:     startTime,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		Notes:         r.Notes,
		StaffID:       r.StaffID,
		StaffName:     r.StaffName,
		CouponCode:    r.CouponCode,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		AppointmentResponse: models.FromDomainAppointment(resp.Appointment),
		FailedOpen:          resp.FailedOpen,
	}
}
