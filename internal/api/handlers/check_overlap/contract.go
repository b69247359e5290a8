package check_overlap

import (
	"context"
	"time"

	"github.com/m04kA/ClinicBookingService/internal/service/availability"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

type AvailabilityService interface {
	CheckOverlap(ctx context.Context, date time.Time, start, end types.TimeString, categoryID, excludeID string) (*availability.OverlapResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
