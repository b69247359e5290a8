package update_appointment

import (
	"fmt"
	"strings"

	"github.com/m04kA/ClinicBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AdminID == "" {
		return fmt.Errorf("%w: admin id is required", ErrInvalidInput)
	}
	if req.AppointmentID == "" {
		return fmt.Errorf("%w: appointment id is required", ErrInvalidInput)
	}
	if req.Date != nil && req.Date.IsZero() {
		return fmt.Errorf("%w: date must not be empty", ErrInvalidInput)
	}
	if req.StartTime != nil {
		if err := req.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
		}
	}
	if req.EndTime != nil && !req.EndTime.IsZero() {
		if err := req.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
		}
	}
	if req.Duration != nil && (*req.Duration <= 0 || *req.Duration > domain.MaxDurationMinutes) {
		return fmt.Errorf("%w: duration must be between 1 and %d minutes", ErrInvalidInput, domain.MaxDurationMinutes)
	}
	if req.CustomerName != nil {
		name := strings.TrimSpace(*req.CustomerName)
		if name == "" || len(name) > domain.MaxCustomerNameLength {
			return fmt.Errorf("%w: customerName must be 1-%d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
		}
	}
	if req.CustomerPhone != nil && strings.TrimSpace(*req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customerPhone must not be empty", ErrInvalidInput)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	if req.AdminNote != nil && len(*req.AdminNote) > domain.MaxNotesLength {
		return fmt.Errorf("%w: adminNote must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}
