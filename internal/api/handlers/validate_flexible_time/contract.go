package validate_flexible_time

import (
	"context"

	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/internal/service/availability"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

type AvailabilityService interface {
	ValidateFlexibleTime(ctx context.Context, start types.TimeString, duration int, serviceID string, mode scheduling.Mode) (*availability.FlexibleValidation, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
