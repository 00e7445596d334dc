package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unpuzzledd/academy-api/internal/models"
)

func date(value string) time.Time {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		panic(err)
	}
	return t
}

func mondayPattern() []models.WeeklyScheduleEntry {
	return []models.WeeklyScheduleEntry{
		{Day: "monday", FromTime: "09:00", ToTime: "10:30"},
	}
}

func TestGenerateOrderedWithoutDuplicates(t *testing.T) {
	pattern := []models.WeeklyScheduleEntry{
		{Day: "monday", FromTime: "09:00", ToTime: "10:30"},
		{Day: "wednesday", FromTime: "14:00", ToTime: "15:30"},
		{Day: "friday", FromTime: "16:00", ToTime: "17:00"},
	}
	now := date("2024-06-01")

	occurrences := Generate(pattern, date("2024-06-01"), date("2024-06-30"), now)
	require.NotEmpty(t, occurrences)

	seen := map[string]bool{}
	prev := ""
	for _, occ := range occurrences {
		assert.False(t, seen[occ.Date], "duplicate date %s", occ.Date)
		seen[occ.Date] = true
		assert.Greater(t, occ.Date, prev, "dates must be strictly ascending")
		prev = occ.Date
	}
}

func TestGenerateClampsToToday(t *testing.T) {
	now := date("2024-06-12")

	occurrences := Generate(mondayPattern(), date("2024-06-01"), date("2024-06-30"), now)
	require.NotEmpty(t, occurrences)
	assert.GreaterOrEqual(t, occurrences[0].Date, "2024-06-12")
	// Mondays on or after the injected today: 17th and 24th only.
	require.Len(t, occurrences, 2)
	assert.Equal(t, "2024-06-17", occurrences[0].Date)
	assert.Equal(t, "2024-06-24", occurrences[1].Date)
}

func TestGenerateClampIncludesTodayItself(t *testing.T) {
	// 2024-06-10 is a Monday; clamping to today must not skip today's class.
	now := date("2024-06-10")
	occurrences := Generate(mondayPattern(), date("2024-06-01"), date("2024-06-10"), now)
	require.Len(t, occurrences, 1)
	assert.Equal(t, "2024-06-10", occurrences[0].Date)
}

func TestGenerateEmptyPatternAndInvertedRange(t *testing.T) {
	now := date("2024-06-01")
	assert.Empty(t, Generate(nil, date("2024-06-01"), date("2024-06-30"), now))
	assert.Empty(t, Generate(mondayPattern(), date("2024-06-30"), date("2024-06-01"), now))
}

func TestGenerateCaseInsensitiveDayMatch(t *testing.T) {
	pattern := []models.WeeklyScheduleEntry{
		{Day: "Monday", FromTime: "09:00", ToTime: "10:30"},
	}
	now := date("2024-06-10")
	occurrences := Generate(pattern, date("2024-06-10"), date("2024-06-10"), now)
	require.Len(t, occurrences, 1)
	assert.Equal(t, "monday", occurrences[0].Day)
}

func TestGenerateFirstMatchingEntryWins(t *testing.T) {
	pattern := []models.WeeklyScheduleEntry{
		{Day: "monday", FromTime: "09:00", ToTime: "10:30"},
		{Day: "monday", FromTime: "18:00", ToTime: "19:00"},
	}
	now := date("2024-06-10")
	occurrences := Generate(pattern, date("2024-06-10"), date("2024-06-10"), now)
	require.Len(t, occurrences, 1)
	assert.Equal(t, "09:00", occurrences[0].FromTime)
}

func TestGenerateFridayOnlyPattern(t *testing.T) {
	pattern := []models.WeeklyScheduleEntry{
		{Day: "friday", FromTime: "16:00", ToTime: "17:00"},
	}
	now := date("2024-06-10")
	// Monday 10th through Friday 14th: only the single Friday appears.
	occurrences := Generate(pattern, date("2024-06-10"), date("2024-06-14"), now)
	require.Len(t, occurrences, 1)
	assert.Equal(t, "2024-06-14", occurrences[0].Date)
	assert.Equal(t, "friday", occurrences[0].Day)
}

func TestMergeOneToOneAndPositional(t *testing.T) {
	now := date("2024-06-01")
	occurrences := Generate(mondayPattern(), date("2024-06-01"), date("2024-06-30"), now)
	exceptions := []models.ScheduleException{
		{ExceptionDate: "2024-06-10", Action: models.ExceptionActionCancelled},
	}

	merged := Merge(occurrences, exceptions)
	require.Len(t, merged, len(occurrences))
	for i := range merged {
		assert.Equal(t, occurrences[i].Date, merged[i].Date)
	}
}

func TestMergeWithoutExceptionsIsNormalPassthrough(t *testing.T) {
	now := date("2024-06-01")
	occurrences := Generate(mondayPattern(), date("2024-06-01"), date("2024-06-30"), now)

	merged := Merge(occurrences, nil)
	require.Len(t, merged, len(occurrences))
	for i, m := range merged {
		assert.Equal(t, occurrences[i], m.ClassOccurrence)
		assert.Equal(t, models.OccurrenceStatusNormal, m.Status)
		assert.Empty(t, m.OriginalTime)
		assert.Nil(t, m.Exception)
	}
}

func TestMergeCancelledKeepsOriginalTimes(t *testing.T) {
	occurrences := []models.ClassOccurrence{
		{Date: "2024-06-10", Day: "monday", FromTime: "09:00", ToTime: "10:30"},
	}
	exceptions := []models.ScheduleException{
		{ExceptionDate: "2024-06-10", Action: models.ExceptionActionCancelled, Notes: "public holiday"},
	}

	merged := Merge(occurrences, exceptions)
	require.Len(t, merged, 1)
	assert.Equal(t, models.OccurrenceStatusUnavailable, merged[0].Status)
	assert.Equal(t, "09:00", merged[0].FromTime)
	assert.Equal(t, "10:30", merged[0].ToTime)
	assert.Empty(t, merged[0].OriginalTime)
	require.NotNil(t, merged[0].Exception)
	assert.Equal(t, "public holiday", merged[0].Exception.Notes)
}

func TestMergeTimeChangedWithFallback(t *testing.T) {
	occurrences := []models.ClassOccurrence{
		{Date: "2024-06-10", Day: "monday", FromTime: "09:00", ToTime: "10:30"},
	}
	exceptions := []models.ScheduleException{
		{ExceptionDate: "2024-06-10", Action: models.ExceptionActionTimeChanged},
	}

	merged := Merge(occurrences, exceptions)
	require.Len(t, merged, 1)
	assert.Equal(t, models.OccurrenceStatusTimeChanged, merged[0].Status)
	assert.Equal(t, "09:00", merged[0].FromTime)
	assert.Equal(t, "10:30", merged[0].ToTime)
	assert.Equal(t, "9:00 AM - 10:30 AM", merged[0].OriginalTime)
	assert.NotNil(t, merged[0].Exception)
}

func TestMergeTimeChangedReplacesTimes(t *testing.T) {
	occurrences := []models.ClassOccurrence{
		{Date: "2024-06-10", Day: "monday", FromTime: "09:00", ToTime: "10:30"},
	}
	exceptions := []models.ScheduleException{
		{ExceptionDate: "2024-06-10", Action: models.ExceptionActionTimeChanged, FromTime: "11:00", ToTime: "12:30"},
	}

	merged := Merge(occurrences, exceptions)
	require.Len(t, merged, 1)
	assert.Equal(t, "11:00", merged[0].FromTime)
	assert.Equal(t, "12:30", merged[0].ToTime)
	assert.Equal(t, "monday", merged[0].Day)
	assert.Equal(t, "9:00 AM - 10:30 AM", merged[0].OriginalTime)
}

func TestMergeMovedKeepsDateAndLabelsOriginalDay(t *testing.T) {
	occurrences := []models.ClassOccurrence{
		{Date: "2024-06-10", Day: "monday", FromTime: "09:00", ToTime: "10:30"},
	}
	exceptions := []models.ScheduleException{
		{
			ExceptionDate: "2024-06-10",
			Action:        models.ExceptionActionMoved,
			NewDay:        "wednesday",
			FromTime:      "14:00",
			ToTime:        "15:00",
		},
	}

	merged := Merge(occurrences, exceptions)
	require.Len(t, merged, 1)
	assert.Equal(t, models.OccurrenceStatusMoved, merged[0].Status)
	assert.Equal(t, "wednesday", merged[0].Day)
	assert.Equal(t, "14:00", merged[0].FromTime)
	assert.Equal(t, "15:00", merged[0].ToTime)
	assert.Equal(t, "Monday: 9:00 AM - 10:30 AM", merged[0].OriginalTime)
	// The occurrence stays anchored to its original date: a same-week
	// reschedule display, not a true date relocation.
	assert.Equal(t, "2024-06-10", merged[0].Date)
}

func TestMergeMovedFallsBackToOriginalFields(t *testing.T) {
	occurrences := []models.ClassOccurrence{
		{Date: "2024-06-10", Day: "monday", FromTime: "09:00", ToTime: "10:30"},
	}
	exceptions := []models.ScheduleException{
		{ExceptionDate: "2024-06-10", Action: models.ExceptionActionMoved},
	}

	merged := Merge(occurrences, exceptions)
	require.Len(t, merged, 1)
	assert.Equal(t, "monday", merged[0].Day)
	assert.Equal(t, "09:00", merged[0].FromTime)
	assert.Equal(t, "10:30", merged[0].ToTime)
}

func TestMergeUnknownActionIsNormal(t *testing.T) {
	occurrences := []models.ClassOccurrence{
		{Date: "2024-06-10", Day: "monday", FromTime: "09:00", ToTime: "10:30"},
	}
	exceptions := []models.ScheduleException{
		{ExceptionDate: "2024-06-10", Action: "postponed"},
	}

	merged := Merge(occurrences, exceptions)
	require.Len(t, merged, 1)
	assert.Equal(t, models.OccurrenceStatusNormal, merged[0].Status)
	assert.Nil(t, merged[0].Exception)
}

func TestMergeFirstExceptionPerDateWins(t *testing.T) {
	occurrences := []models.ClassOccurrence{
		{Date: "2024-06-10", Day: "monday", FromTime: "09:00", ToTime: "10:30"},
	}
	exceptions := []models.ScheduleException{
		{ExceptionDate: "2024-06-10", Action: models.ExceptionActionCancelled},
		{ExceptionDate: "2024-06-10", Action: models.ExceptionActionTimeChanged, FromTime: "11:00", ToTime: "12:00"},
	}

	merged := Merge(occurrences, exceptions)
	require.Len(t, merged, 1)
	assert.Equal(t, models.OccurrenceStatusUnavailable, merged[0].Status)
}

func TestMaterializeCombinesGenerateAndMerge(t *testing.T) {
	now := date("2024-06-01")
	exceptions := []models.ScheduleException{
		{ExceptionDate: "2024-06-17", Action: models.ExceptionActionCancelled},
	}

	merged := Materialize(mondayPattern(), exceptions, date("2024-06-01"), date("2024-06-30"), now)
	require.Len(t, merged, 4)
	assert.Equal(t, models.OccurrenceStatusNormal, merged[0].Status)
	assert.Equal(t, models.OccurrenceStatusUnavailable, merged[2].Status)
	assert.Equal(t, "2024-06-17", merged[2].Date)
}
