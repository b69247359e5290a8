package scheduling

import (
	"strconv"
	"strings"
)

// CoerceDuration turns a persisted duration into positive minutes.
// The leading integer is used ("45", " 45 ", "45min" -> 45); anything that does not
// start with a number, or yields a value <= 0, falls back to fallback.
func CoerceDuration(raw string, fallback int) int {
	s := strings.TrimSpace(raw)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return fallback
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return fallback
	}
	return PositiveOr(n, fallback)
}

// PositiveOr returns n when it is positive, otherwise fallback
func PositiveOr(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}
