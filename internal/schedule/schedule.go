// Package schedule materializes a batch's weekly recurring pattern into
// concrete, date-ordered class occurrences and merges date-specific
// exceptions (cancellations, time changes, day moves) onto them.
//
// Every function here is pure: inputs are read-only snapshots, the current
// date is an explicit parameter, and nothing is retained between calls.
package schedule

import (
	"time"

	"github.com/unpuzzledd/academy-api/internal/models"
)

// Generate walks every calendar day from max(rangeStart, midnight of now) to
// rangeEnd inclusive and emits one ClassOccurrence for each day that has a
// matching weekly-pattern entry. Matching is case-insensitive on the entry's
// day and the first entry matching a weekday wins; there is no fan-out to
// multiple classes per day within a single pattern.
//
// The result is strictly ascending by date with no duplicates. An empty
// pattern or an inverted range yields an empty slice, not an error.
func Generate(pattern []models.WeeklyScheduleEntry, rangeStart, rangeEnd, now time.Time) []models.ClassOccurrence {
	occurrences := []models.ClassOccurrence{}
	if len(pattern) == 0 {
		return occurrences
	}

	start := midnight(rangeStart)
	if today := midnight(now); today.After(start) {
		start = today
	}
	end := midnight(rangeEnd)

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := DayKey(d)
		for _, entry := range pattern {
			if NormalizeDay(entry.Day) != key {
				continue
			}
			occurrences = append(occurrences, models.ClassOccurrence{
				Date:     d.Format(DateLayout),
				Day:      key,
				FromTime: entry.FromTime,
				ToTime:   entry.ToTime,
			})
			break
		}
	}
	return occurrences
}

// Merge applies exceptions onto generated occurrences, producing a slice of
// the same length and date order. An exception applies when its date equals
// an occurrence's date exactly; when several share one date the first in
// input order wins.
//
// Cancelled occurrences keep their original day and times so the consumer can
// render them struck through. Time changes and moves fall back to the
// original times when the exception omits them, and a move keeps the
// occurrence anchored to its original calendar date: only the displayed day
// and times change. An unrecognized action degrades to a normal passthrough.
func Merge(occurrences []models.ClassOccurrence, exceptions []models.ScheduleException) []models.MergedOccurrence {
	merged := make([]models.MergedOccurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		merged = append(merged, applyException(occ, findException(exceptions, occ.Date)))
	}
	return merged
}

// Materialize runs Generate then Merge in one call.
func Materialize(pattern []models.WeeklyScheduleEntry, exceptions []models.ScheduleException, rangeStart, rangeEnd, now time.Time) []models.MergedOccurrence {
	return Merge(Generate(pattern, rangeStart, rangeEnd, now), exceptions)
}

func findException(exceptions []models.ScheduleException, date string) *models.ScheduleException {
	for i := range exceptions {
		if exceptions[i].ExceptionDate == date {
			return &exceptions[i]
		}
	}
	return nil
}

func applyException(occ models.ClassOccurrence, exc *models.ScheduleException) models.MergedOccurrence {
	out := models.MergedOccurrence{ClassOccurrence: occ, Status: models.OccurrenceStatusNormal}
	if exc == nil {
		return out
	}

	switch exc.Action {
	case models.ExceptionActionCancelled:
		out.Status = models.OccurrenceStatusUnavailable
		out.Exception = exc

	case models.ExceptionActionTimeChanged:
		out.Status = models.OccurrenceStatusTimeChanged
		out.OriginalTime = timeRangeLabel(occ.FromTime, occ.ToTime)
		if exc.FromTime != "" {
			out.FromTime = exc.FromTime
		}
		if exc.ToTime != "" {
			out.ToTime = exc.ToTime
		}
		out.Exception = exc

	case models.ExceptionActionMoved:
		out.Status = models.OccurrenceStatusMoved
		out.OriginalTime = DayName(occ.Day) + ": " + timeRangeLabel(occ.FromTime, occ.ToTime)
		if exc.NewDay != "" {
			out.Day = NormalizeDay(exc.NewDay)
		}
		if exc.FromTime != "" {
			out.FromTime = exc.FromTime
		}
		if exc.ToTime != "" {
			out.ToTime = exc.ToTime
		}
		out.Exception = exc
	}
	return out
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
