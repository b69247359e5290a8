package scheduling

import (
	"fmt"

	"github.com/m04kA/ClinicBookingService/internal/domain"
	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// Defaults are the values a category inherits for every field it leaves unset
type Defaults struct {
	TimeType            domain.TimeType
	FixedTimeSlots      []types.TimeString
	ForbiddenStartTimes []types.TimeString
	MaxEndTime          types.TimeString
	BookingLimit        int
	DurationMinutes     int
}

// StandardDefaults returns the clinic's built-in defaults
func StandardDefaults() Defaults {
	return Defaults{
		TimeType:            domain.TimeTypeFixed,
		FixedTimeSlots:      mustTimes(domain.DefaultFixedTimeSlots),
		ForbiddenStartTimes: mustTimes(domain.DefaultForbiddenStartTimes),
		MaxEndTime:          domain.DefaultMaxEndTime,
		BookingLimit:        domain.DefaultBookingLimit,
		DurationMinutes:     domain.DefaultDurationMinutes,
	}
}

// NewDefaults builds defaults from raw config values, validating every time
func NewDefaults(timeType string, fixed, forbidden []string, maxEnd string, limit, duration int) (Defaults, error) {
	d := StandardDefaults()

	if timeType != "" {
		tt := domain.TimeType(timeType)
		if !tt.IsValid() {
			return Defaults{}, fmt.Errorf("scheduling: unknown time type %q", timeType)
		}
		d.TimeType = tt
	}
	if fixed != nil {
		slots, err := parseTimes(fixed)
		if err != nil {
			return Defaults{}, fmt.Errorf("scheduling: fixed slots: %w", err)
		}
		d.FixedTimeSlots = slots
	}
	if forbidden != nil {
		starts, err := parseTimes(forbidden)
		if err != nil {
			return Defaults{}, fmt.Errorf("scheduling: forbidden starts: %w", err)
		}
		d.ForbiddenStartTimes = starts
	}
	if maxEnd != "" {
		end, err := types.NewTimeStringFromString(maxEnd)
		if err != nil {
			return Defaults{}, fmt.Errorf("scheduling: max end time: %w", err)
		}
		d.MaxEndTime = end
	}
	if limit > 0 {
		d.BookingLimit = limit
	}
	d.DurationMinutes = PositiveOr(duration, d.DurationMinutes)

	return d, nil
}

// Policy is a category with every optional field resolved
type Policy struct {
	CategoryID          string
	TimeType            domain.TimeType
	FixedTimeSlots      []types.TimeString
	ForbiddenStartTimes []types.TimeString
	MaxEndTime          types.TimeString
	BookingLimit        int
	FromDefaults        bool // категория не найдена, все поля из Defaults
}

// ResolvePolicy fills every field category leaves unset from d. A nil category
// (missing record) resolves entirely to defaults. A configured limit of 0 is kept
// and blocks every booking; only a negative limit counts as unset.
func ResolvePolicy(categoryID string, category *domain.Category, d Defaults) Policy {
	p := Policy{
		CategoryID:          categoryID,
		TimeType:            d.TimeType,
		FixedTimeSlots:      d.FixedTimeSlots,
		ForbiddenStartTimes: d.ForbiddenStartTimes,
		MaxEndTime:          d.MaxEndTime,
		BookingLimit:        d.BookingLimit,
	}
	if category == nil {
		p.FromDefaults = true
		return p
	}

	if category.TimeType != nil && category.TimeType.IsValid() {
		p.TimeType = *category.TimeType
	}
	if category.FixedTimeSlots != nil {
		p.FixedTimeSlots = category.FixedTimeSlots
	}
	if category.ForbiddenStartTimes != nil {
		p.ForbiddenStartTimes = category.ForbiddenStartTimes
	}
	if category.MaxEndTime != nil && category.MaxEndTime.Validate() == nil {
		p.MaxEndTime = *category.MaxEndTime
	}
	if category.BookingLimit != nil && *category.BookingLimit >= 0 {
		p.BookingLimit = *category.BookingLimit
	}
	return p
}

// IsFlexible returns true for flexible-time categories
func (p Policy) IsFlexible() bool {
	return p.TimeType == domain.TimeTypeFlexible
}

// IsFixedSlot returns true if start is one of the category's fixed slots
func (p Policy) IsFixedSlot(start types.TimeString) bool {
	return containsTime(p.FixedTimeSlots, start)
}

// IsForbiddenStart returns true if start is a forbidden flexible start
func (p Policy) IsForbiddenStart(start types.TimeString) bool {
	return containsTime(p.ForbiddenStartTimes, start)
}

func containsTime(list []types.TimeString, t types.TimeString) bool {
	target, err := t.Minutes()
	if err != nil {
		return false
	}
	for _, item := range list {
		if m, err := item.Minutes(); err == nil && m == target {
			return true
		}
	}
	return false
}

func parseTimes(raw []string) ([]types.TimeString, error) {
	out := make([]types.TimeString, 0, len(raw))
	for _, s := range raw {
		t, err := types.NewTimeStringFromString(s)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func mustTimes(raw []string) []types.TimeString {
	out, err := parseTimes(raw)
	if err != nil {
		panic(err)
	}
	return out
}
