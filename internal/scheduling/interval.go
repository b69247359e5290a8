package scheduling

import (
	"fmt"

	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// Interval is a half-open [Start, End) range in minutes since midnight.
// End may exceed 24:00 when a long service starts late; comparisons stay correct.
type Interval struct {
	Start int
	End   int
}

// NewInterval builds [start, start+duration)
func NewInterval(start types.TimeString, durationMinutes int) (Interval, error) {
	m, err := start.Minutes()
	if err != nil {
		return Interval{}, err
	}
	if durationMinutes < 0 {
		durationMinutes = 0
	}
	return Interval{Start: m, End: m + durationMinutes}, nil
}

// IntervalBetween builds [start, end); end must be strictly after start
func IntervalBetween(start, end types.TimeString) (Interval, error) {
	s, err := start.Minutes()
	if err != nil {
		return Interval{}, err
	}
	e, err := end.Minutes()
	if err != nil {
		return Interval{}, err
	}
	if e <= s {
		return Interval{}, fmt.Errorf("%w: %s-%s", ErrEndNotAfterStart, start, end)
	}
	return Interval{Start: s, End: e}, nil
}

// Duration in minutes
func (i Interval) Duration() int {
	return i.End - i.Start
}

// Overlaps is the half-open test: touching intervals do not overlap
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// EndTime formats End as "HH:MM"; fails when the interval runs past midnight
func (i Interval) EndTime() (types.TimeString, error) {
	return types.TimeStringFromMinutes(i.End)
}

// StartTime formats Start as "HH:MM"
func (i Interval) StartTime() (types.TimeString, error) {
	return types.TimeStringFromMinutes(i.Start)
}
