package check_time_availability

import (
	"context"
	"time"

	"github.com/m04kA/ClinicBookingService/internal/service/availability"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

type AvailabilityService interface {
	CheckTimeAvailability(ctx context.Context, date time.Time, start types.TimeString, serviceID string) (*availability.Availability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
