package scheduling

import "errors"

var (
	// ErrEndNotAfterStart возвращается, когда явное время окончания не позже начала
	ErrEndNotAfterStart = errors.New("scheduling: end time must be after start time")
)
