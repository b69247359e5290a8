package scheduling

import (
	"github.com/m04kA/ClinicBookingService/internal/domain"
)

// AppointmentInterval returns the occupied interval of a stored appointment.
// The stored duration is the source of truth; EndTime is informational only.
func AppointmentInterval(a *domain.Appointment, fallbackDuration int) (Interval, error) {
	return NewInterval(a.StartTime, CoerceDuration(a.ServiceDuration, fallbackDuration))
}

// IntervalsFor collects the intervals that compete for capacity in a category:
// same denormalized category, not cancelled, not the appointment being edited.
// Records with an unparsable start time are skipped and counted.
func IntervalsFor(appointments []*domain.Appointment, categoryID, excludeID string, fallbackDuration int) ([]Interval, int) {
	intervals := make([]Interval, 0, len(appointments))
	skipped := 0
	for _, a := range appointments {
		if a == nil || a.IsCancelled() || a.ServiceCategoryID != categoryID {
			continue
		}
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		iv, err := AppointmentInterval(a, fallbackDuration)
		if err != nil {
			skipped++
			continue
		}
		intervals = append(intervals, iv)
	}
	return intervals, skipped
}

// StaffConflicts returns the staff member's non-cancelled appointments, in any
// category, that overlap the candidate. excludeID drops the appointment being edited.
func StaffConflicts(appointments []*domain.Appointment, staffID, excludeID string, candidate Interval, fallbackDuration int) []*domain.Appointment {
	var conflicts []*domain.Appointment
	for _, a := range appointments {
		if a == nil || a.IsCancelled() || !a.HasStaff() || *a.StaffID != staffID {
			continue
		}
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		iv, err := AppointmentInterval(a, fallbackDuration)
		if err != nil {
			continue
		}
		if iv.Overlaps(candidate) {
			conflicts = append(conflicts, a)
		}
	}
	return conflicts
}
