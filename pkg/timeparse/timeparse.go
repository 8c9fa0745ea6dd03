// Package timeparse converts wall-clock "HH:MM" text to minute offsets
// within a single 24-hour day.
package timeparse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the number of minutes in the day being scored. The value
// 1440 itself is the exclusive end-of-day bound, never a valid start.
const MinutesPerDay = 1440

var (
	// ErrFormat reports time text that is not two colon-separated numbers.
	ErrFormat = errors.New("invalid time format")
	// ErrRange reports a parsed time outside 00:00..23:59 (24:00 excepted).
	ErrRange = errors.New("time out of range")
)

// Parse converts "HH:MM" to minutes since midnight. The literal "24:00" is
// the end-of-day sentinel and maps to MinutesPerDay. Single-digit fields
// such as "12:5" are accepted.
func Parse(text string) (int, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrFormat, text)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, text)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, text)
	}
	if hour == 24 && minute == 0 {
		return MinutesPerDay, nil
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrRange, text)
	}
	return hour*60 + minute, nil
}

// Format renders a minute offset back as "HH:MM"; MinutesPerDay renders as
// the "24:00" sentinel.
func Format(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
