package scheduling

import (
	"fmt"

	"github.com/m04kA/ClinicBookingService/pkg/types"
)

// FlexibleCheck is the outcome of the flexible-time rule
type FlexibleCheck struct {
	Valid   bool
	EndTime types.TimeString // пусто, если окончание выходит за сутки
	Message string
}

// CheckFlexibleTime applies the flexible rule: start must not be forbidden and
// start+duration must not end after MaxEndTime. Ending exactly at MaxEndTime is allowed.
func CheckFlexibleTime(p Policy, start types.TimeString, durationMinutes int) (FlexibleCheck, error) {
	iv, err := NewInterval(start, durationMinutes)
	if err != nil {
		return FlexibleCheck{}, err
	}

	res := FlexibleCheck{Valid: true}
	if end, err := iv.EndTime(); err == nil {
		res.EndTime = end
	}

	if p.IsForbiddenStart(start) {
		res.Valid = false
		res.Message = fmt.Sprintf("appointments cannot start at %s", start)
		return res, nil
	}

	maxEnd, err := p.MaxEndTime.Minutes()
	if err != nil {
		return res, nil
	}
	if iv.End > maxEnd {
		res.Valid = false
		res.Message = fmt.Sprintf("appointment must end by %s", p.MaxEndTime)
	}
	return res, nil
}

// TimeRuleDecision applies the category's time rule in the given mode.
// For fixed categories an admin may book a custom time, which skips the slot check.
func TimeRuleDecision(p Policy, start types.TimeString, durationMinutes int, mode Mode, customTime bool) (Decision, error) {
	if err := start.Validate(); err != nil {
		return Decision{}, err
	}

	if p.IsFlexible() {
		check, err := CheckFlexibleTime(p, start, durationMinutes)
		if err != nil {
			return Decision{}, err
		}
		if check.Valid {
			return Admit(), nil
		}
		return Violate(mode, ViolationValidation, check.Message), nil
	}

	if p.IsFixedSlot(start) || (mode == ModeAdmin && customTime) {
		return Admit(), nil
	}
	return Violate(mode, ViolationValidation,
		fmt.Sprintf("%s is not one of the category's time slots", start)), nil
}
