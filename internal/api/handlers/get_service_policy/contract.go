package get_service_policy

import (
	"context"

	"github.com/m04kA/ClinicBookingService/internal/service/availability"
)

type AvailabilityService interface {
	ResolveService(ctx context.Context, serviceID string) (*availability.ResolvedService, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
