package admin_create_appointment

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
	if req.ServiceID == "" {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}
	if !req.EndTime.IsZero() {
		if err := req.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
		}
		if !req.EndTime.IsAfter(req.StartTime) {
			return fmt.Errorf("%w: endTime must be after time", ErrInvalidInput)
		}
	}
	if req.Duration < 0 || req.Duration > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: duration must be between 0 and %d minutes", ErrInvalidInput, domain.MaxDurationMinutes)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName must not exceed %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customerPhone is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	if req.AdminNote != nil && len(*req.AdminNote) > domain.MaxNotesLength {
		return fmt.Errorf("%w: adminNote must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}
