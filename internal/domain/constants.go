package domain

// Default scheduling values, used when neither the category nor the config sets them
const (
	DefaultDurationMinutes = 60
	DefaultBookingLimit    = 999
	DefaultMaxEndTime      = "16:30"
)

// DefaultFixedTimeSlots стартовые слоты категорий с фиксированным временем
var DefaultFixedTimeSlots = []string{"08:30", "10:00", "11:30", "13:00", "15:00"}

// DefaultForbiddenStartTimes запрещённые старты для категорий с гибким временем
var DefaultForbiddenStartTimes = []string{"08:00", "08:30", "16:30"}

// Business validation constants
const (
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 200
	MaxDurationMinutes          = 480 // 8 hours
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, которые занимают мощность категории и время мастера
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
