package check_staff_availability

import (
	"context"
	"time"

	"github.com/m04kA/ClinicBookingService/internal/service/availability"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

type AvailabilityService interface {
	CheckStaffAvailability(ctx context.Context, staffID string, date time.Time, start types.TimeString, duration int, excludeID string) (*availability.StaffAvailability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
