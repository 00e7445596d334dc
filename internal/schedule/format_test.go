package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTime12Hour(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"00:00", "12:00 AM"},
		{"13:05", "1:05 PM"},
		{"12:00", "12:00 PM"},
		{"09:30", "9:30 AM"},
		{"23:59", "11:59 PM"},
		{"", ""},
		{"noon", ""},
		{"ab:30", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatTime12Hour(tc.in), "input %q", tc.in)
	}
}

func TestDayName(t *testing.T) {
	assert.Equal(t, "Monday", DayName("monday"))
	assert.Equal(t, "Sunday", DayName("SUNDAY"))
	assert.Equal(t, "someday", DayName("someday"))
}

func TestDayKeySundayIsIndexZero(t *testing.T) {
	// 2024-06-09 is a Sunday.
	sunday := time.Date(2024, time.June, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "sunday", DayKey(sunday))
	assert.Equal(t, "monday", DayKey(sunday.AddDate(0, 0, 1)))
	assert.Equal(t, "saturday", DayKey(sunday.AddDate(0, 0, 6)))
}

func TestValidDayAndTime(t *testing.T) {
	assert.True(t, ValidDay(" Wednesday "))
	assert.False(t, ValidDay("midweek"))
	assert.True(t, ValidTime("09:00"))
	assert.False(t, ValidTime("9am"))
	assert.False(t, ValidTime("25:00"))
}
