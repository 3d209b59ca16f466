package report

import (
	"time"

	"github.com/veenapanicker/nexus/internal/models"
)

// termEndMonth/termEndDay fix the academic term-end trigger date.
const (
	termEndMonth = time.May
	termEndDay   = 15
)

// NextRun computes the first trigger time for a schedule created at from.
//
//   - daily: one calendar day later.
//   - weekly: the next occurrence of dayOfWeek strictly after from; when from
//     already falls on that weekday the run moves a full week out, never
//     same-day.
//   - monthly: the next calendar month with the day set to dayOfMonth,
//     clamped to the month's last day when the month is too short.
//   - term-end: May 15 of the current year, or of the next year when that
//     date has already passed.
//
// The result is always strictly after from.
func NextRun(freq models.Frequency, dayOfWeek, dayOfMonth int, from time.Time) time.Time {
	switch freq {
	case models.FrequencyWeekly:
		days := (dayOfWeek - int(from.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return from.AddDate(0, 0, days)

	case models.FrequencyMonthly:
		year, month, _ := from.Date()
		hour, min, sec := from.Clock()
		day := dayOfMonth
		if last := daysIn(year, month+1, from.Location()); day > last {
			day = last
		}
		return time.Date(year, month+1, day, hour, min, sec, 0, from.Location())

	case models.FrequencyTermEnd:
		hour, min, sec := from.Clock()
		next := time.Date(from.Year(), termEndMonth, termEndDay, hour, min, sec, 0, from.Location())
		if !next.After(from) {
			next = next.AddDate(1, 0, 0)
		}
		return next

	default: // daily
		return from.AddDate(0, 0, 1)
	}
}

// daysIn returns the number of days in the given month. The month may be
// out of range; time.Date normalizes it.
func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
