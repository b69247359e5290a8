package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/ClinicBookingService/internal/service/availability"
)

type AvailabilityService interface {
	AvailableSlots(ctx context.Context, date time.Time, serviceID string, duration int) (*availability.AvailableSlots, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
