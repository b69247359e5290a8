package clinictime

import (
	"time"
	_ "time/tzdata"

	"github.com/m04kA/ClinicBookingService/pkg/types"
)

const DefaultTimezone = "Asia/Gaza"

// Location часовой пояс по имени; при ошибке DefaultTimezone, затем UTC
func Location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// Clock отдаёт "сейчас" в часовом поясе клиники.
// Даты записей хранятся как полночь UTC, поэтому Today приводится к тому же виду.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) *Clock {
	return &Clock{loc: loc, now: time.Now}
}

// NewFixedClock часы, которые всегда показывают t (для тестов)
func NewFixedClock(t time.Time, loc *time.Location) *Clock {
	return &Clock{loc: loc, now: func() time.Time { return t }}
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today календарная дата клиники как полночь UTC
func (c *Clock) Today() time.Time {
	return DateOf(c.Now())
}

// TimeOfDay текущее время клиники в виде "HH:MM"
func (c *Clock) TimeOfDay() types.TimeString {
	return types.NewTimeString(c.Now())
}

// IsPastDate true для дат раньше сегодняшней
func (c *Clock) IsPastDate(date time.Time) bool {
	return DateOf(date).Before(c.Today())
}

// IsToday true, если дата совпадает с сегодняшней датой клиники
func (c *Clock) IsToday(date time.Time) bool {
	return DateOf(date).Equal(c.Today())
}

// HasStarted true, если start на дату date уже наступил (или прошёл) по времени клиники
func (c *Clock) HasStarted(date time.Time, start types.TimeString) bool {
	if c.IsPastDate(date) {
		return true
	}
	if !c.IsToday(date) {
		return false
	}
	startMin, err := start.Minutes()
	if err != nil {
		return false
	}
	nowMin, _ := c.TimeOfDay().Minutes()
	return startMin <= nowMin
}

// DateOf отбрасывает время и часовой пояс, оставляя календарную дату
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
