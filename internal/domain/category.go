package domain

import (
	"time"

	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// TimeType describes how start times are chosen in a category
type TimeType string

const (
	TimeTypeFixed    TimeType = "fixed"
	TimeTypeFlexible TimeType = "flexible"
)

// IsValid returns true for fixed and flexible
func (t TimeType) IsValid() bool {
	return t == TimeTypeFixed || t == TimeTypeFlexible
}

// Category is a service category as stored by the catalog.
// Every policy field is optional; unset fields fall back to the configured defaults.
type Category struct {
	ID   string
	Name string

	TimeType            *TimeType
	FixedTimeSlots      []types.TimeString // nil = не задано
	ForbiddenStartTimes []types.TimeString // nil = не задано
	MaxEndTime          *types.TimeString
	BookingLimit        *int

	CreatedAt time.Time
	UpdatedAt time.Time
}
