package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	timeLayout    = "15:04"
	minutesPerDay = 24 * 60
)

var (
	ErrInvalidTimeString = errors.New("types: invalid time string, expected HH:MM")
	ErrTimeOutOfRange    = errors.New("types: time is outside of a single day")
)

// TimeString is a wall-clock time of day in "HH:MM" form.
// The zero value is the empty string and means "not set".
type TimeString string

// NewTimeString форматирует время суток из time.Time
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит и нормализует строку ("9:30" -> "09:30")
func NewTimeStringFromString(s string) (TimeString, error) {
	h, m, err := parseClock(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return TimeString(fmt.Sprintf("%02d:%02d", h, m)), nil
}

// TimeStringFromMinutes converts minutes since midnight back to "HH:MM".
func TimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Minutes returns minutes since midnight.
func (t TimeString) Minutes() (int, error) {
	h, m, err := parseClock(string(t))
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// AddMinutes shifts the time forward; negative durations are treated as zero.
func (t TimeString) AddMinutes(d int) (TimeString, error) {
	start, err := t.Minutes()
	if err != nil {
		return "", err
	}
	if d < 0 {
		d = 0
	}
	return TimeStringFromMinutes(start + d)
}

func (t TimeString) Validate() error {
	_, _, err := parseClock(string(t))
	return err
}

func (t TimeString) IsZero() bool {
	return t == ""
}

// IsBefore сравнивает по минутам, невалидные значения никогда не меньше
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a < b
}

func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}

func (t TimeString) String() string {
	return string(t)
}

// Scan implements sql.Scanner. Postgres TIME values ("10:00:00") are truncated to minutes,
// an empty string scans as unset.
func (t *TimeString) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("types: cannot scan %T into TimeString", src)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*t = ""
		return nil
	}
	// "10:00:00" и "10:00:00.5" из колонки TIME
	if len(raw) > 5 && raw[5] == ':' {
		raw = raw[:5]
	}
	parsed, err := NewTimeStringFromString(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer.
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

func parseClock(s string) (int, int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return h, m, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
