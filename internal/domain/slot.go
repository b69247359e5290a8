package domain

import "github.com/m04kA/ClinicBookingService/pkg/types"

// AvailableSlot represents a start time offered to the customer together with its load
type AvailableSlot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Current         int // уже занято в пике на интервале
	Limit           int
	Available       bool
}

// IsFull returns true if booking this slot would exceed the category limit
func (s *AvailableSlot) IsFull() bool {
	return !s.Available
}

// FreeSpots returns how many more appointments fit at the busiest point of the interval
func (s *AvailableSlot) FreeSpots() int {
	free := s.Limit - s.Current
	if free < 0 {
		return 0
	}
	return free
}
