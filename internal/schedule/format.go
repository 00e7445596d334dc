package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format used across the schedule API.
const DateLayout = "2006-01-02"

// dayKeys is indexed by time.Weekday (Sunday = 0).
var dayKeys = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

var dayNames = map[string]string{
	"sunday":    "Sunday",
	"monday":    "Monday",
	"tuesday":   "Tuesday",
	"wednesday": "Wednesday",
	"thursday":  "Thursday",
	"friday":    "Friday",
	"saturday":  "Saturday",
}

// DayKey returns the lowercase weekday key for a calendar date.
func DayKey(t time.Time) string {
	return dayKeys[int(t.Weekday())]
}

// NormalizeDay canonicalizes a weekday value to its lowercase key form.
func NormalizeDay(day string) string {
	return strings.ToLower(strings.TrimSpace(day))
}

// ValidDay reports whether day normalizes to a known weekday key.
func ValidDay(day string) bool {
	_, ok := dayNames[NormalizeDay(day)]
	return ok
}

// DayName converts a weekday key to its display name. Unrecognized keys pass
// through unchanged so a bad value degrades to odd display, not a failure.
func DayName(key string) string {
	if name, ok := dayNames[NormalizeDay(key)]; ok {
		return name
	}
	return key
}

// FormatTime12Hour converts a 24-hour "HH:MM" wall-clock time to a 12-hour
// "H:MM AM/PM" label. Empty input yields an empty string and a value whose
// hour does not parse yields an empty string; minutes are passed through
// verbatim without re-validation.
func FormatTime12Hour(value string) string {
	if value == "" {
		return ""
	}
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return ""
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return ""
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%s %s", hour12, parts[1], suffix)
}

// ValidTime reports whether value is a well-formed 24-hour HH:MM time.
func ValidTime(value string) bool {
	_, err := time.Parse("15:04", value)
	return err == nil
}

func timeRangeLabel(from, to string) string {
	return fmt.Sprintf("%s - %s", FormatTime12Hour(from), FormatTime12Hour(to))
}
